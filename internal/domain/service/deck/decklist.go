package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

const foilMarker = "*F*"

var (
	quantityPattern = regexp.MustCompile(`^(\d+)[xX]?\s+(.+)$`)
	printingPattern = regexp.MustCompile(`^(.+?)\s+\(([A-Za-z0-9]+)\)\s+(\S+)$`)
)

// ParseDecklist разбирает текстовый список вида
//
//	4 Lightning Bolt
//	2 Counterspell (MH2) 267 *F*
//
//	Sideboard
//	1 Pyroblast
//
// Количество по умолчанию 1. Строки после "Sideboard" (или с префиксом
// "SB:") попадают в сайдборд. Пустые строки и комментарии пропускаются.
func ParseDecklist(text string) ([]LineInput, error) {
	var (
		lines     []LineInput
		sideboard bool
	)

	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch lower := strings.ToLower(strings.TrimSuffix(line, ":")); {
		case line == "", strings.HasPrefix(line, "//"), strings.HasPrefix(line, "#"):
			continue
		case lower == "sideboard":
			sideboard = true
			continue
		case lower == "deck", lower == "mainboard", lower == "main":
			sideboard = false
			continue
		}

		parsed, err := parseLine(line)
		if err != nil {
			return nil, domain.NewValidationError(errcodes.InvalidDeckLine, fmt.Sprintf("line %d: %s", n+1, err))
		}

		if parsed.Quantity <= 0 {
			return nil, domain.NewInvalidQuantityError(fmt.Sprintf("line %d: quantity must be positive", n+1))
		}

		parsed.Sideboard = parsed.Sideboard || sideboard
		lines = append(lines, parsed)
	}

	return lines, nil
}

func parseLine(line string) (LineInput, error) {
	in := LineInput{Quantity: 1}

	if rest, ok := cutPrefixFold(line, "SB:"); ok {
		in.Sideboard = true
		line = strings.TrimSpace(rest)
	}

	if m := quantityPattern.FindStringSubmatch(line); m != nil {
		qty, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return LineInput{}, fmt.Errorf("bad quantity %q", m[1])
		}

		in.Quantity = qty
		line = m[2]
	}

	if rest, ok := cutSuffixFold(line, foilMarker); ok {
		in.Foil = true
		line = strings.TrimSpace(rest)
	}

	if m := printingPattern.FindStringSubmatch(line); m != nil {
		in.Card = value.CardRef{
			Name:            strings.TrimSpace(m[1]),
			SetCode:         strings.ToLower(m[2]),
			CollectorNumber: m[3],
		}
	} else {
		in.Card = value.CardRef{Name: line}
	}

	if in.Card.Name == "" {
		return LineInput{}, fmt.Errorf("card name is missing")
	}

	return in, nil
}

// FormatDecklist печатает строки колоды в формате, который понимает
// ParseDecklist.
func FormatDecklist(lines []entity.DeckLine) string {
	var main, side []string

	for _, l := range lines {
		text := formatLine(l)
		if l.Sideboard {
			side = append(side, text)
		} else {
			main = append(main, text)
		}
	}

	var b strings.Builder

	b.WriteString(strings.Join(main, "\n"))

	if len(side) > 0 {
		if len(main) > 0 {
			b.WriteString("\n\n")
		}

		b.WriteString("Sideboard\n")
		b.WriteString(strings.Join(side, "\n"))
	}

	return b.String()
}

func formatLine(l entity.DeckLine) string {
	var b strings.Builder

	b.WriteString(strconv.FormatInt(l.Quantity, 10))
	b.WriteString(" ")

	if l.Card != nil && l.Card.Name != "" {
		b.WriteString(l.Card.Name)

		if l.Card.SetCode != "" && l.Card.CollectorNumber != "" {
			b.WriteString(" (" + strings.ToUpper(l.Card.SetCode) + ") " + l.Card.CollectorNumber)
		}
	} else {
		b.WriteString(l.CardID)
	}

	if l.Foil {
		b.WriteString(" " + foilMarker)
	}

	return b.String()
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}

	return s, false
}

func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)], true
	}

	return s, false
}
