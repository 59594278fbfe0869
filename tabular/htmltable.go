package tabular

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadHTMLTable extracts the first <table> of an HTML document into a
// Dataset. The table's first row supplies the column names. Documents with
// zero tables fail with ErrNoTable.
func ReadHTMLTable(data []byte) (*Dataset, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	table := findNode(doc, atom.Table)
	if table == nil {
		return nil, ErrNoTable
	}

	var records [][]string
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, nodeText(c))
				}
			}
			if len(cells) > 0 {
				records = append(records, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)

	if len(records) == 0 {
		return nil, ErrNoTable
	}

	header := records[0]
	var rows [][]Cell
	for _, record := range records[1:] {
		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = Cell{Value: v}
		}
		rows = append(rows, cells)
	}
	return newDataset(header, rows), nil
}

func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}

// nodeText collects the trimmed text of a node subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
