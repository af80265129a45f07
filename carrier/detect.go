package carrier

import "strings"

// sampleRows is how deep Detect looks into a file. Carrier banners always
// sit in the first handful of lines.
const sampleRows = 20

// Detect inspects the leading rows of a file and returns the best-matching
// profile, or Generic when no signature is present. Pure function: first
// signature hit in registry order wins, no scoring.
func Detect(rows []RawRow) *Profile {
	var b strings.Builder
	for i, row := range rows {
		if i >= sampleRows {
			break
		}
		if len(row) == 0 || row.Empty() {
			continue
		}
		for _, cell := range row {
			b.WriteString(strings.ToUpper(cell))
			b.WriteByte(' ')
		}
	}
	blob := b.String()

	for _, p := range registry {
		for _, sig := range p.Signatures {
			if strings.Contains(blob, sig) {
				return p
			}
		}
	}
	return Generic
}

// DeviceVariant reports whether a file is the "by device identifier" export
// of the profile, which carries an extra banner line. The check looks at the
// filename and at the banner rows above the column header; the header row
// itself is excluded because it names an IMEI column in every layout.
func DeviceVariant(p *Profile, filename string, rows []RawRow) bool {
	if p.IMEIDataStart == 0 {
		return false
	}
	if strings.Contains(strings.ToLower(filename), "imei") {
		return true
	}
	banner := p.DataStart - 1
	if banner > len(rows) {
		banner = len(rows)
	}
	for _, row := range rows[:banner] {
		for _, cell := range row {
			if strings.Contains(strings.ToUpper(cell), "IMEI") {
				return true
			}
		}
	}
	return false
}
