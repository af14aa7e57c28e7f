package arxiv

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"PaperChat/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// ParseSearchHTML 解析网页高级搜索的结果页
func ParseSearchHTML(htmlContent string) ([]*models.Paper, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	total := 0
	candidates := []string{
		"#main-container h1",
		"h1.title",
		"h1",
	}
	for _, sel := range candidates {
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			if total > 0 {
				return
			}
			text := cleanText(s.Text())
			if strings.Contains(text, "Sorry") {
				total = 0
				return
			}

			re := regexp.MustCompile(`of\s+([\d,]+)\s+results`)
			matches := re.FindStringSubmatch(text)
			if len(matches) > 1 {
				totalStr := strings.ReplaceAll(matches[1], ",", "")
				fmt.Sscanf(totalStr, "%d", &total)
			}
		})
		if total > 0 {
			break
		}
	}

	var papers []*models.Paper
	doc.Find("li.arxiv-result").Each(func(i int, s *goquery.Selection) {
		paper := parsePaperItem(s)
		if paper != nil {
			papers = append(papers, paper)
		}
	})

	if total == 0 && len(papers) > 0 {
		total = len(papers)
	}

	return papers, total, nil
}

func parsePaperItem(s *goquery.Selection) *models.Paper {
	paper := &models.Paper{}

	if link := s.Find("a").First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		paper.ArxivID = parseArxivIDFromURL(href)
	}
	if paper.ArxivID != "" {
		paper.PDFURL = PDFUrl(paper.ArxivID)
	}

	if title := s.Find("p.title"); title.Length() > 0 {
		paper.Title = cleanText(title.Text())
	}

	if authors := s.Find("p.authors"); authors.Length() > 0 {
		text := authors.Text()
		text = strings.TrimPrefix(text, "Authors:")
		paper.Authors = parseAuthorsToSlice(cleanText(text))
	}

	if abstract := s.Find("span.abstract-full"); abstract.Length() > 0 {
		paper.Abstract = cleanText(parseAbstract(abstract))
	}

	var categories []string
	s.Find("span.tag.tooltip").Each(func(i int, tag *goquery.Selection) {
		cat := strings.TrimSpace(tag.Text())
		if cat != "" {
			categories = append(categories, cat)
		}
	})
	paper.Categories = categories

	if dateElem := s.Find("p.is-size-7"); dateElem.Length() > 0 {
		if t, ok := parseDate(dateElem.Text()); ok {
			paper.Published = t.Format("2006-01-02")
		}
	}

	return paper
}

func parseAbstract(s *goquery.Selection) string {
	var text string
	s.Contents().Each(func(i int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			text += node.Text()
		} else if node.Is("span.search-hit") {
			text += node.Text()
		}
	})
	return text
}

func parseDate(text string) (time.Time, bool) {
	var dateStr string

	if strings.Contains(text, "v1submitted") || strings.Contains(text, "v1 submitted") {
		re := regexp.MustCompile(`v1\s*submitted\s+(.+?);\s*originally`)
		matches := re.FindStringSubmatch(text)
		if len(matches) > 1 {
			dateStr = matches[1]
		}
	}

	if dateStr == "" {
		re := regexp.MustCompile(`Submitted\s*(.+?);\s*originally`)
		matches := re.FindStringSubmatch(text)
		if len(matches) > 1 {
			dateStr = matches[1]
		}
	}

	dateStr = strings.TrimSpace(dateStr)
	t, err := time.Parse("2 January, 2006", dateStr)
	if err != nil {
		t, err = time.Parse("2 Jan, 2006", dateStr)
	}
	return t, err == nil
}

func cleanText(text string) string {
	text = regexp.MustCompile(`\s+`).ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func parseArxivIDFromURL(url string) string {
	// 从 https://arxiv.org/abs/2408.12345 提取 2408.12345
	if len(url) > 0 {
		idx := strings.LastIndex(url, "/")
		if idx > 0 && idx < len(url)-1 {
			return url[idx+1:]
		}
	}
	return ""
}

func parseAuthorsToSlice(authorsStr string) []string {
	if authorsStr == "" {
		return nil
	}
	authors := strings.Split(authorsStr, ",")
	result := make([]string, 0, len(authors))
	for _, author := range authors {
		author = strings.TrimSpace(author)
		if author != "" {
			result = append(result, author)
		}
	}
	return result
}

type AtomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Total   int         `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries []AtomEntry `xml:"entry"`
}

type AtomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []AtomAuthor   `xml:"author"`
	Links      []AtomLink     `xml:"link"`
	Categories []AtomCategory `xml:"category"`
}

type AtomAuthor struct {
	Name string `xml:"name"`
}

type AtomLink struct {
	Rel   string `xml:"rel,attr"`
	Href  string `xml:"href,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type AtomCategory struct {
	Term string `xml:"term,attr"`
}

// ParseAtomFeed 解析官方 API 返回的 Atom feed
func ParseAtomFeed(xmlContent string) ([]*models.Paper, int, error) {
	var feed AtomFeed
	if err := xml.Unmarshal([]byte(xmlContent), &feed); err != nil {
		return nil, 0, fmt.Errorf("failed to parse atom: %w", err)
	}

	var papers []*models.Paper
	for _, e := range feed.Entries {
		p := &models.Paper{}

		// e.ID 类似 http://arxiv.org/abs/2408.12345v1
		p.ArxivID = parseArxivIDFromURL(e.ID)
		p.Title = cleanText(e.Title)
		p.Abstract = cleanText(e.Summary)

		var authorNames []string
		for _, a := range e.Authors {
			name := strings.TrimSpace(a.Name)
			if name != "" {
				authorNames = append(authorNames, name)
			}
		}
		p.Authors = authorNames

		var cats []string
		for _, c := range e.Categories {
			if c.Term != "" {
				cats = append(cats, c.Term)
			}
		}
		p.Categories = cats

		// PDF 链接优先取 feed 中 title="pdf" 的 link
		for _, l := range e.Links {
			if l.Title == "pdf" || l.Type == "application/pdf" {
				p.PDFURL = l.Href
				break
			}
		}
		if p.PDFURL == "" && p.ArxivID != "" {
			p.PDFURL = PDFUrl(p.ArxivID)
		}

		if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
			p.Published = t.Format("2006-01-02")
		}

		papers = append(papers, p)
	}

	return papers, feed.Total, nil
}
