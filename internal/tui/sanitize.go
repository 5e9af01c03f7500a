package tui

// sanitizeLine strips terminal control sequences that would otherwise
// corrupt the pane's frame — cursor movement, screen/line clearing, OSC
// (window title) — while keeping SGR (color/style) sequences intact, since
// lipgloss already measures those correctly. Lines from a plain log file
// rarely carry any of this, but output captured from a colorized or
// spinner-driven process does.
//
// Drops every \r (line overwrite) since a materialized Line is already a
// single logical row.
func sanitizeLine(s string) string {
	data := []byte(s)
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		b := data[i]

		if b == 0x1b && i+1 < len(data) {
			next := data[i+1]

			if next == '[' {
				j := i + 2
				for j < len(data) && data[j] >= 0x20 && data[j] <= 0x3f {
					j++
				}
				for j < len(data) && data[j] >= 0x20 && data[j] <= 0x2f {
					j++
				}
				if j < len(data) && data[j] >= 0x40 && data[j] <= 0x7e {
					if data[j] == 'm' {
						out = append(out, data[i:j+1]...)
					}
					i = j + 1
					continue
				}
				i += 2
				continue
			}

			if next == ']' {
				j := i + 2
				for j < len(data) {
					if data[j] == 0x07 {
						j++
						break
					}
					if data[j] == 0x1b && j+1 < len(data) && data[j+1] == '\\' {
						j += 2
						break
					}
					j++
				}
				i = j
				continue
			}

			i += 2
			continue
		}

		if b == '\r' {
			i++
			continue
		}

		out = append(out, b)
		i++
	}
	return string(out)
}
