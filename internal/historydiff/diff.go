// Package historydiff compares two flat field snapshots of a record and
// lists the fields that changed, in a fixed per-domain order.
package historydiff

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Snapshot is a flat field-name to value view of a record
type Snapshot map[string]any

// Field is one tracked field of a domain
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Change is one differing field
type Change struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Domain field lists. Order here is the order changes are reported in.
var (
	HSEFields = []Field{
		{"mcu_tanggal", "Tanggal MCU"},
		{"mcu_hasil", "Hasil MCU"},
		{"mcu_berlaku", "MCU Berlaku Sampai"},
		{"passport_nomor", "Nomor Safety Passport"},
		{"passport_berlaku", "Safety Passport Berlaku Sampai"},
		{"sim_nomor", "Nomor SIM"},
		{"sim_jenis", "Jenis SIM"},
		{"sim_berlaku", "SIM Berlaku Sampai"},
	}

	ContractFields = []Field{
		{"kontrak_awal", "Kontrak Awal"},
		{"kontrak_akhir", "Kontrak Akhir"},
		{"jabatan", "Jabatan"},
		{"lokasi_kerja", "Lokasi Kerja"},
		{"status", "Status"},
	}
)

// Diff returns one Change per field whose normalized values differ.
// nil, empty and whitespace-only values are all treated as blank.
func Diff(fields []Field, old, new Snapshot) []Change {
	changes := []Change{}
	for _, f := range fields {
		o := Format(old[f.Key])
		n := Format(new[f.Key])
		if o == n {
			continue
		}
		changes = append(changes, Change{
			Field:    f.Key,
			Label:    f.Label,
			OldValue: o,
			NewValue: n,
		})
	}
	return changes
}

// Normalize keeps only the tracked fields, each rendered through Format,
// so that a snapshot survives a JSON round trip unchanged.
func Normalize(fields []Field, s Snapshot) Snapshot {
	out := make(Snapshot, len(fields))
	for _, f := range fields {
		out[f.Key] = Format(s[f.Key])
	}
	return out
}

// Equal reports whether the snapshots have no differing field
func Equal(fields []Field, old, new Snapshot) bool {
	return len(Diff(fields, old, new)) == 0
}

// Format renders a snapshot value as the normalized string used for
// comparison and display. Dates render as YYYY-MM-DD.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case *string:
		if x == nil {
			return ""
		}
		return strings.TrimSpace(*x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
