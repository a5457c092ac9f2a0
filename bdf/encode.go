package bdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldFormat selects the column layout cards are written in.
type FieldFormat uint8

const (
	// FormatAuto picks the narrowest layout whose cells hold every
	// field of a card, escalating small to large to free.
	FormatAuto FieldFormat = iota
	FormatSmall
	FormatLarge
	FormatFree
)

var formatNames = [...]string{"auto", "small", "large", "free"}

func (f FieldFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

const blank8 = "        "
const blank16 = "                "

// printFloat8 renders a real into exactly eight columns at the highest
// precision the width allows. Fixed-point forms are preferred, with
// the precision stepped down one digit per decade and redundant zeros
// trimmed; values too small or too large for fixed point fall back to
// the compressed scientific form.
func printFloat8(v float64) string {
	if v == 0 {
		return fmt.Sprintf("%8s", "0.")
	}
	var field string
	if v > 0 {
		switch {
		case v < 5e-8:
			return printScientific8(v)
		case v < 0.001:
			sci := printScientific8(v)
			fixed := strings.Trim(fmt.Sprintf("%8.7f", v), "0 ")
			if fixed == "." {
				return sci
			}
			expanded := strings.Replace(strings.TrimSpace(sci), "-", "e-", 1)
			f1, err1 := strconv.ParseFloat(expanded, 64)
			f2, err2 := strconv.ParseFloat(fixed, 64)
			if len(fixed) <= 8 && err1 == nil && err2 == nil && f1 == f2 {
				field = fixed
			} else {
				return sci
			}
		case v < 0.1:
			field = fmt.Sprintf("%8.7f", v)
		case v < 1:
			field = fmt.Sprintf("%8.7f", v)
		case v < 10:
			field = fmt.Sprintf("%8.6f", v)
		case v < 100:
			field = fmt.Sprintf("%8.5f", v)
		case v < 1000:
			field = fmt.Sprintf("%8.4f", v)
		case v < 10000:
			field = fmt.Sprintf("%8.3f", v)
		case v < 100000:
			field = fmt.Sprintf("%8.2f", v)
		case v < 1000000:
			field = fmt.Sprintf("%8.1f", v)
		default:
			field = fmt.Sprintf("%8.1f", v)
			if strings.IndexByte(field, '.') < 8 {
				field = fmt.Sprintf("%8.1f", math.Round(v))[:8]
			} else {
				field = printScientific8(v)
			}
			return field
		}
	} else {
		switch {
		case v > -5e-7:
			return printScientific8(v)
		case v > -0.01:
			sci := printScientific8(v)
			fixed := strings.Trim(fmt.Sprintf("%8.6f", v), "0 ")
			expanded := "-" + strings.Replace(strings.Trim(sci, " 0-"), "-", "e-", 1)
			f1, err1 := strconv.ParseFloat(expanded, 64)
			f2, err2 := strconv.ParseFloat(fixed, 64)
			if len(fixed) <= 8 && err1 == nil && err2 == nil && f1 == f2 {
				field = strings.Replace(strings.TrimRight(fixed, " 0"), "-0.", "-.", 1)
			} else {
				return sci
			}
		case v > -0.1:
			field = strings.Replace(fmt.Sprintf("%8.6f", v), "-0.", "-.", 1)
		case v > -1:
			field = strings.Replace(fmt.Sprintf("%8.6f", v), "-0.", "-.", 1)
		case v > -10:
			field = fmt.Sprintf("%8.5f", v)
		case v > -100:
			field = fmt.Sprintf("%8.4f", v)
		case v > -1000:
			field = fmt.Sprintf("%8.3f", v)
		case v > -10000:
			field = fmt.Sprintf("%8.2f", v)
		case v > -100000:
			field = fmt.Sprintf("%8.1f", v)
		default:
			field = fmt.Sprintf("%8.1f", v)
			if strings.IndexByte(field, '.') < 8 {
				field = fmt.Sprintf("%7s.", strconv.Itoa(int(math.Round(v))))
			} else {
				field = printScientific8(v)
			}
			return field
		}
	}
	return fmt.Sprintf("%8s", strings.Trim(field, " 0"))
}

// printScientific8 renders a real in the compressed scientific form,
// where the exponent marker is dropped and the exponent sign carries
// it: 1.5e3 prints as 1.5+3, -9.5e-5 as -9.5-5. The mantissa precision
// flexes to fill whatever the exponent digits leave of the width.
func printScientific8(v float64) string {
	return printScientific(v, 8)
}

func printScientific16(v float64) string {
	return printScientific(v, 16)
}

func printScientific(v float64, width int) string {
	if v == 0 {
		return fmt.Sprintf("%*s", width, "0.")
	}
	eprec := 11
	if width == 16 {
		eprec = 14
	}
	s := fmt.Sprintf("%.*e", eprec, v)
	mantS, expS, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expS)
	sign := "+"
	if math.Abs(v) < 1 {
		sign = "-"
	}
	digits := strings.TrimLeft(strconv.Itoa(exp), "-+")
	mant, _ := strconv.ParseFloat(mantS, 64)
	leftover := width - (len(digits) + 1)
	prec := leftover - 2
	if v < 0 {
		prec = leftover - 3
	}
	if prec < 0 {
		prec = 0
	}
	cell := strings.Trim(fmt.Sprintf("%1.*f", prec, mant), "0")
	return fmt.Sprintf("%*s", width, cell+sign+digits)
}

// printFloat16 is the sixteen-column analogue of printFloat8, one
// decimal of precision per decade wider.
func printFloat16(v float64) string {
	if v == 0 {
		return fmt.Sprintf("%16s", "0.")
	}
	var field string
	if v > 0 {
		switch {
		case v < 5e-16:
			return printScientific16(v)
		case v < 0.001:
			sci := printScientific16(v)
			fixed := strings.Trim(fmt.Sprintf("%16.15f", v), "0 ")
			if fixed == "." {
				return sci
			}
			expanded := strings.Replace(strings.TrimSpace(sci), "-", "e-", 1)
			f1, err1 := strconv.ParseFloat(expanded, 64)
			f2, err2 := strconv.ParseFloat(fixed, 64)
			if len(fixed) <= 16 && err1 == nil && err2 == nil && f1 == f2 {
				field = fixed
			} else {
				return sci
			}
		case v < 1:
			field = fmt.Sprintf("%16.15f", v)
		case v < 10:
			field = fmt.Sprintf("%16.14f", v)
		case v < 100:
			field = fmt.Sprintf("%16.13f", v)
		case v < 1000:
			field = fmt.Sprintf("%16.12f", v)
		case v < 1e4:
			field = fmt.Sprintf("%16.11f", v)
		case v < 1e5:
			field = fmt.Sprintf("%16.10f", v)
		case v < 1e6:
			field = fmt.Sprintf("%16.9f", v)
		case v < 1e7:
			field = fmt.Sprintf("%16.8f", v)
		case v < 1e8:
			field = fmt.Sprintf("%16.7f", v)
		case v < 1e9:
			field = fmt.Sprintf("%16.6f", v)
		case v < 1e10:
			field = fmt.Sprintf("%16.5f", v)
		case v < 1e11:
			field = fmt.Sprintf("%16.4f", v)
		case v < 1e12:
			field = fmt.Sprintf("%16.3f", v)
		case v < 1e13:
			field = fmt.Sprintf("%16.2f", v)
		case v < 1e14:
			field = fmt.Sprintf("%16.1f", v)
		default:
			field = fmt.Sprintf("%16.1f", v)
			if strings.IndexByte(field, '.') < 16 {
				field = field[:16]
			} else {
				field = printScientific16(v)
			}
			return field
		}
	} else {
		switch {
		case v > -5e-15:
			return printScientific16(v)
		case v > -0.01:
			sci := printScientific16(v)
			fixed := strings.Trim(fmt.Sprintf("%16.14f", v), "0 ")
			expanded := "-" + strings.Replace(strings.Trim(sci, " 0-"), "-", "e-", 1)
			f1, err1 := strconv.ParseFloat(expanded, 64)
			f2, err2 := strconv.ParseFloat(fixed, 64)
			if len(fixed) <= 16 && err1 == nil && err2 == nil && f1 == f2 {
				field = strings.Replace(strings.TrimRight(fixed, " 0"), "-0.", "-.", 1)
			} else {
				return sci
			}
		case v > -0.1:
			field = strings.Replace(fmt.Sprintf("%16.14f", v), "-0.", "-.", 1)
		case v > -1:
			field = strings.Replace(fmt.Sprintf("%16.14f", v), "-0.", "-.", 1)
		case v > -10:
			field = fmt.Sprintf("%16.13f", v)
		case v > -100:
			field = fmt.Sprintf("%16.12f", v)
		case v > -1000:
			field = fmt.Sprintf("%16.11f", v)
		case v > -1e4:
			field = fmt.Sprintf("%16.10f", v)
		case v > -1e5:
			field = fmt.Sprintf("%16.9f", v)
		case v > -1e6:
			field = fmt.Sprintf("%16.8f", v)
		case v > -1e7:
			field = fmt.Sprintf("%16.7f", v)
		case v > -1e8:
			field = fmt.Sprintf("%16.6f", v)
		case v > -1e9:
			field = fmt.Sprintf("%16.5f", v)
		case v > -1e10:
			field = fmt.Sprintf("%16.4f", v)
		case v > -1e11:
			field = fmt.Sprintf("%16.3f", v)
		case v > -1e12:
			field = fmt.Sprintf("%16.2f", v)
		case v > -1e13:
			field = fmt.Sprintf("%16.1f", v)
		default:
			field = fmt.Sprintf("%16.1f", v)
			if strings.IndexByte(field, '.') < 16 {
				field = field[:16]
			} else {
				field = printScientific16(v)
			}
			return field
		}
	}
	return fmt.Sprintf("%16s", strings.Trim(field, " 0"))
}

// encodeField8 renders one field into an eight-column cell. Integers
// and symbols that overflow the cell report false; reals always fit.
func encodeField8(f Field) (string, bool) {
	switch f.Kind() {
	case KindBlank:
		return blank8, true
	case KindInt:
		s := strconv.Itoa(f.Int(0))
		if len(s) > 8 {
			return "", false
		}
		return fmt.Sprintf("%8s", s), true
	case KindFloat:
		v := f.Float(0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return printFloat8(v), true
	default:
		s := f.Str("")
		if len(s) > 8 {
			return "", false
		}
		return fmt.Sprintf("%8s", s), true
	}
}

func encodeField16(f Field) (string, bool) {
	switch f.Kind() {
	case KindBlank:
		return blank16, true
	case KindInt:
		s := strconv.Itoa(f.Int(0))
		if len(s) > 16 {
			return "", false
		}
		return fmt.Sprintf("%16s", s), true
	case KindFloat:
		v := f.Float(0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return printFloat16(v), true
	default:
		s := f.Str("")
		if len(s) > 16 {
			return "", false
		}
		return fmt.Sprintf("%16s", s), true
	}
}

// encodeFieldFree renders one field without a width limit. Reals keep
// an explicit decimal point or exponent so they re-read as reals.
func encodeFieldFree(f Field) (string, bool) {
	switch f.Kind() {
	case KindBlank:
		return "", true
	case KindInt:
		return strconv.Itoa(f.Int(0)), true
	case KindFloat:
		v := f.Float(0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		s := strconv.FormatFloat(v, 'G', -1, 64)
		if !strings.ContainsAny(s, ".E") {
			s += "."
		}
		return s, true
	default:
		return f.Str(""), true
	}
}

func trimTrailingBlanks(fields []Field) []Field {
	n := len(fields)
	for n > 1 && fields[n-1].IsBlank() {
		n--
	}
	return fields[:n]
}

// printCard8 lays out a card in small-field columns: the keyword in
// the first eight columns, eight data cells per line, continuation
// lines opening with a blank field. A line of nothing but blanks gets
// a + so it survives the final trim.
func printCard8(fields []Field) (string, error) {
	fields = trimTrailingBlanks(fields)
	out := fmt.Sprintf("%-8s", fields[0].Str(""))
	for i := 1; i < len(fields); i++ {
		cell, ok := encodeField8(fields[i])
		if !ok {
			return "", cellError(fields[i], i)
		}
		out += cell
		if i%8 == 0 {
			out = strings.TrimRight(out, " ")
			if strings.HasSuffix(out, "\n") {
				out += "+"
			}
			out += "\n" + blank8
		}
	}
	return strings.TrimRight(out, " \n+") + "\n", nil
}

// printCard16 lays out a card in large-field columns: the keyword
// tagged with *, four sixteen-column cells per line, continuation
// lines opening with *.
func printCard16(fields []Field) (string, error) {
	fields = trimTrailingBlanks(fields)
	out := fmt.Sprintf("%-8s", fields[0].Str("")+"*")
	for i := 1; i < len(fields); i++ {
		cell, ok := encodeField16(fields[i])
		if !ok {
			return "", cellError(fields[i], i)
		}
		out += cell
		if i%4 == 0 {
			out = strings.TrimRight(out, " ")
			if strings.HasSuffix(out, "\n") {
				out += "*"
			}
			out += "\n" + fmt.Sprintf("%-8s", "*")
		}
	}
	return strings.TrimRight(out, " \n*") + "\n", nil
}

// printCardFree lays out a card comma-separated, eight data fields per
// line, continuation lines opening with a comma.
func printCardFree(fields []Field) (string, error) {
	fields = trimTrailingBlanks(fields)
	cur := []string{fields[0].Str("")}
	var out strings.Builder
	for i := 1; i < len(fields); i++ {
		cell, ok := encodeFieldFree(fields[i])
		if !ok {
			return "", cellError(fields[i], i)
		}
		cur = append(cur, cell)
		if i%8 == 0 && i < len(fields)-1 {
			out.WriteString(strings.Join(cur, ","))
			out.WriteByte('\n')
			cur = []string{""}
		}
	}
	out.WriteString(strings.Join(cur, ","))
	out.WriteByte('\n')
	return out.String(), nil
}

// printCard renders one card in the requested layout. FormatAuto
// escalates through the layouts until one holds every field.
func printCard(fields []Field, format FieldFormat) (string, error) {
	switch format {
	case FormatSmall:
		return printCard8(fields)
	case FormatLarge:
		return printCard16(fields)
	case FormatFree:
		return printCardFree(fields)
	}
	if s, err := printCard8(fields); err == nil {
		return s, nil
	}
	if s, err := printCard16(fields); err == nil {
		return s, nil
	}
	return printCardFree(fields)
}

func cellError(f Field, i int) *WidthError {
	return &WidthError{Field: strconv.Itoa(i), Value: f.String()}
}
