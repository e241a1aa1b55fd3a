// Package csvtab tokenizes comma separated text into rows of fields.
//
// The tokenizer is a four-state machine (field start, unquoted field,
// quoted field, just after a closing quote). It is lenient: stray quotes
// inside unquoted fields are literal, text after a closing quote is kept,
// and an unterminated quote runs to end of input. Carriage returns are
// dropped everywhere and blank lines produce no row.
package csvtab

import "strings"

type state int

const (
	fieldStart state = iota
	inField
	inQuotedField
	afterQuote
)

// Parse splits text into rows. It never fails.
func Parse(text string) [][]string {
	var (
		rows  [][]string
		row   []string
		field strings.Builder
		st    = fieldStart
	)

	emitField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	emitRow := func() {
		rows = append(rows, row)
		row = nil
	}

	for _, r := range text {
		if r == '\r' {
			continue
		}

		switch st {
		case fieldStart:
			switch r {
			case '"':
				st = inQuotedField
			case ',':
				emitField()
			case '\n':
				if len(row) > 0 {
					emitField()
					emitRow()
				}
			default:
				field.WriteRune(r)
				st = inField
			}

		case inField:
			switch r {
			case ',':
				emitField()
				st = fieldStart
			case '\n':
				emitField()
				emitRow()
				st = fieldStart
			default:
				field.WriteRune(r)
			}

		case inQuotedField:
			if r == '"' {
				st = afterQuote
			} else {
				field.WriteRune(r)
			}

		case afterQuote:
			switch r {
			case '"':
				field.WriteRune('"')
				st = inQuotedField
			case ',':
				emitField()
				st = fieldStart
			case '\n':
				emitField()
				emitRow()
				st = fieldStart
			default:
				field.WriteRune(r)
				st = inField
			}
		}
	}

	if st != fieldStart || len(row) > 0 {
		emitField()
		emitRow()
	}

	return rows
}
