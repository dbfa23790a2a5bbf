package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

const sgmlIDPrefix = "reut-"

// controlStripper removes the start/end-of-text markers (&#2; and &#3;) Reuters wraps bodies in.
var controlStripper = strings.NewReplacer("\x01", "", "\x02", "", "\x03", "")

// LoadReutersSGML loads the Reuters-21578 SGML distribution: the reut2-*.sgm files of dir,
// read in name order. Each <REUTERS> element becomes a document with ID reut-<NEWID>, its
// <TOPICS> as categories and its <TITLE> and <BODY> as text. Only the first sampleSize documents
// are kept (non-positive keeps everything), while Categories covers every parsed document.
func LoadReutersSGML(dir string, sampleSize int) (*Corpus, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sgm"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, errors.NewCorpusNotFoundError(string(KindReutersSGML), dir)
	}
	sort.Strings(files)

	docs := make([]model.Document, 0)
	for _, path := range files {
		parsed, err := parseSGMLFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, parsed...)
	}

	categories := make(map[string][]string)
	for _, doc := range docs {
		for _, category := range doc.Categories {
			categories[category] = append(categories[category], doc.ID)
		}
	}

	if sampleSize > 0 && len(docs) > sampleSize {
		docs = docs[:sampleSize]
	}
	return &Corpus{
		Name:       "Reuters-21578",
		Kind:       KindReutersSGML,
		Documents:  docs,
		Categories: categories,
	}, nil
}

func parseSGMLFile(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ParseSGML(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return docs, nil
}

// sgmlArticle accumulates one <REUTERS> element.
type sgmlArticle struct {
	newID  string
	topics []string
	title  strings.Builder
	body   strings.Builder
	loose  strings.Builder // text directly under <TEXT>, for unprocessed articles without a <BODY>
}

func (a *sgmlArticle) document() (model.Document, bool) {
	if a.newID == "" {
		return model.Document{}, false
	}
	title := strings.TrimSpace(controlStripper.Replace(a.title.String()))
	body := strings.TrimSpace(controlStripper.Replace(a.body.String()))
	if body == "" {
		body = strings.TrimSpace(controlStripper.Replace(a.loose.String()))
	}

	text := strings.TrimSpace(title + "\n" + body)
	if text == "" {
		return model.Document{}, false
	}
	return model.Document{
		ID:         sgmlIDPrefix + a.newID,
		Title:      title,
		Text:       text,
		Categories: a.topics,
	}, true
}

// ParseSGML reads the <REUTERS> articles of one Reuters-21578 file.
// Articles without a NEWID or without any text are skipped.
func ParseSGML(r io.Reader) ([]model.Document, error) {
	z := html.NewTokenizer(r)

	var (
		docs    []model.Document
		article *sgmlArticle
		topic   strings.Builder

		inTopics, inD, inTitle, inBody, inText, inDateline bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return docs, nil
			}
			return nil, z.Err()

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "reuters":
				article = &sgmlArticle{}
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if strings.EqualFold(string(key), "newid") {
						article.newID = strings.TrimSpace(string(val))
					}
				}
				inTopics, inD, inTitle, inBody, inText, inDateline = false, false, false, false, false, false
			case "topics":
				inTopics = true
			case "d":
				inD = true
				topic.Reset()
			case "title":
				inTitle = true
			case "body":
				inBody = true
			case "text":
				inText = true
			case "dateline":
				inDateline = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "reuters":
				if article != nil {
					if doc, ok := article.document(); ok {
						docs = append(docs, doc)
					}
				}
				article = nil
			case "topics":
				inTopics = false
			case "d":
				if inD && inTopics && article != nil {
					if t := strings.TrimSpace(topic.String()); t != "" {
						article.topics = append(article.topics, t)
					}
				}
				inD = false
			case "title":
				inTitle = false
			case "body":
				inBody = false
			case "text":
				inText = false
			case "dateline":
				inDateline = false
			}

		case html.TextToken:
			if article == nil {
				continue
			}
			text := string(z.Text())
			switch {
			case inD:
				topic.WriteString(text)
			case inTitle:
				article.title.WriteString(text)
			case inBody:
				article.body.WriteString(text)
			case inText && !inDateline:
				article.loose.WriteString(text)
			}
		}
	}
}
