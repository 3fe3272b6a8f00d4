// Package etl derives the JSONL datasets from cached portal HTML.
package etl

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/lexindex/bnss/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// chapterHeadRe locates chapter headings like "CHAPTER XIV".
	chapterHeadRe = regexp.MustCompile(`(?i)\bCHAPTER\s+([IVXLCDM]+)\b\.?\s*`)

	// sectionHeadRe locates section markers like "103." or "103 .." in the
	// flattened index text.
	sectionHeadRe = regexp.MustCompile(`\b(\d{1,3})\s*\.+\s*`)

	// crosswalkCellRe splits a crosswalk cell into section number and title.
	// Section numbers can look like "4", "4.1", "4 (2)" or "4 A".
	crosswalkCellRe = regexp.MustCompile(`^\s*(\d{1,4}(?:\.\d+)?(?:\s*\(\d+\))?(?:\s*[A-Z])?)\s*\.?\s*(.*)$`)

	changeMarkerRe = regexp.MustCompile(`(?i)\s*\(Change\)\s*`)
)

// Parser implements ports.PageParser for the cytrain portal pages.
type Parser struct{}

// NewParser creates a page parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseSections extracts section rows from the BNSS index page. The page is
// flattened to text first; chapter headings partition the text and section
// markers within each partition yield the rows.
func (p *Parser) ParseSections(data []byte, meta domain.PageMeta) ([]domain.SectionRow, error) {
	text, err := flattenText(data)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrParseNoSections.Error())
	}

	heads := chapterHeadRe.FindAllStringSubmatchIndex(text, -1)
	if len(heads) == 0 {
		return nil, zerr.With(domain.ErrParseNoChapters, "url", meta.SourceURL)
	}

	var rows []domain.SectionRow
	for i, head := range heads {
		chapterNo := romanToInt(text[head[2]:head[3]])

		chunkEnd := len(text)
		if i+1 < len(heads) {
			chunkEnd = heads[i+1][0]
		}
		chunk := text[head[1]:chunkEnd]

		marks := sectionHeadRe.FindAllStringSubmatchIndex(chunk, -1)

		chapterTitle := cleanCell(chunk)
		if len(marks) > 0 {
			chapterTitle = cleanCell(chunk[:marks[0][0]])
		}

		for j, mark := range marks {
			sectionNo, err := strconv.Atoi(chunk[mark[2]:mark[3]])
			if err != nil {
				continue
			}

			bodyEnd := len(chunk)
			if j+1 < len(marks) {
				bodyEnd = marks[j+1][0]
			}
			title := cleanCell(chunk[mark[1]:bodyEnd])
			if len(title) < 3 {
				continue
			}

			rows = append(rows, domain.SectionRow{
				CanonicalID:  domain.CanonicalSectionID(chapterNo, sectionNo),
				Law:          "BNSS",
				ChapterNo:    chapterNo,
				ChapterTitle: chapterTitle,
				SectionNo:    sectionNo,
				SectionTitle: title,
				SourceURL:    meta.SourceURL,
				ContentHash:  meta.ContentHash,
				Version:      meta.Version,
			})
		}
	}

	if len(rows) == 0 {
		return nil, zerr.With(domain.ErrParseNoSections, "url", meta.SourceURL)
	}
	return rows, nil
}

// ParseCrosswalk extracts rows from the BNSS/CrPC comparison table. The page
// carries several layout tables; the one with the most rows is the data table.
func (p *Parser) ParseCrosswalk(data []byte, meta domain.PageMeta) ([]domain.CrosswalkRow, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrParseNoTable.Error())
	}

	tables := collectElements(doc, atom.Table)
	if len(tables) == 0 {
		return nil, zerr.With(domain.ErrParseNoTable, "url", meta.SourceURL)
	}

	var table *html.Node
	most := -1
	for _, t := range tables {
		if n := len(collectElements(t, atom.Tr)); n > most {
			most = n
			table = t
		}
	}

	var rows []domain.CrosswalkRow
	for _, tr := range collectElements(table, atom.Tr) {
		tds := collectElements(tr, atom.Td)
		if len(tds) < 2 {
			continue
		}

		cells := make([]string, len(tds))
		for i, td := range tds {
			cells[i] = nodeText(td)
		}

		bnssNo, bnssTitle := splitSectionCell(cells[0])
		if bnssNo == "" {
			continue
		}
		crpcNo, crpcTitle := splitSectionCell(cells[1])

		remarks := ""
		if len(cells) > 2 {
			remarks = cleanCell(strings.Join(cells[2:], " "))
		}

		rows = append(rows, domain.CrosswalkRow{
			BnssSectionNo:    bnssNo,
			BnssSectionTitle: bnssTitle,
			CrpcSectionNo:    crpcNo,
			CrpcSectionTitle: crpcTitle,
			Remarks:          remarks,
			SourceURL:        meta.SourceURL,
			ContentHash:      meta.ContentHash,
			Version:          meta.Version,
		})
	}

	if len(rows) == 0 {
		return nil, zerr.With(domain.ErrParseNoCrosswalkRows, "url", meta.SourceURL)
	}
	return rows, nil
}

// flattenText renders the document as a single line of space-separated text.
func flattenText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return nodeText(doc), nil
}

// nodeText joins all text nodes under n with spaces, whitespace collapsed.
// Script and style bodies are skipped.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode &&
			(node.DataAtom == atom.Script || node.DataAtom == atom.Style) {
			return
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// collectElements returns all descendant elements of n with the given tag.
func collectElements(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == tag && node != n {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// cleanCell collapses whitespace, drops "(Change)" markers and strips
// trailing dots.
func cleanCell(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	cleaned = changeMarkerRe.ReplaceAllString(cleaned, " ")
	return strings.TrimRight(strings.TrimSpace(cleaned), ".")
}

// splitSectionCell splits a crosswalk cell into (section number, title).
// Cells without a leading number yield an empty number and the cleaned text
// as the title.
func splitSectionCell(text string) (string, string) {
	cleaned := cleanCell(text)
	if cleaned == "" {
		return "", ""
	}
	m := crosswalkCellRe.FindStringSubmatch(cleaned)
	if m == nil {
		return "", cleaned
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// romanToInt converts a Roman numeral to an integer. Unknown characters
// count as zero, so a malformed numeral degrades instead of panicking.
func romanToInt(roman string) int {
	vals := map[rune]int{
		'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
	}
	total := 0
	prev := 0
	runes := []rune(strings.ToUpper(strings.TrimSpace(roman)))
	for i := len(runes) - 1; i >= 0; i-- {
		v := vals[runes[i]]
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total
}
