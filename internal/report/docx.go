package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet     = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reBlockTime  = regexp.MustCompile(`^\d{2,}:\d{2}:\d{2},\d{3} --> `)
	reBlockIndex = regexp.MustCompile(`^\d+$`)
	reUnsafe     = regexp.MustCompile(`[^\p{L}\p{N}_\-]+`)
)

// Export writes <title>.docx with the summary followed by the transcript.
func (e *implExporter) Export(ctx context.Context, d Document) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), d.Title, true, 16)
	if len(d.Participants) > 0 {
		p := doc.AddParagraph("")
		p.AddText("Participants: ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
		p.AddText(strings.Join(d.Participants, ", ")).Font(fontName).Size(fontSize).Color("000000")
	}

	addStyledRun(doc.AddParagraph(""), "Summary", true, headingSize(2))
	writeMarkdown(doc, d.Summary)

	addStyledRun(doc.AddParagraph(""), "Transcript", true, headingSize(2))
	writeTranscript(doc, d.Transcript)

	outputPath := filepath.Join(e.outputDir, safeFilename(d.Title)+".docx")
	if err := doc.SaveTo(outputPath); err != nil {
		return "", fmt.Errorf("save %s: %w", outputPath, err)
	}

	e.logger.Info(ctx, "Exported %s", outputPath)
	return outputPath, nil
}

// writeMarkdown renders headings, bullets and **bold** runs; anything else
// becomes a plain paragraph.
func writeMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}
}

// writeTranscript keeps each block's time range as a small gray line above
// its "[speaker]: text" line and drops the block numbers.
func writeTranscript(doc *docx.RootDoc, rendered string) {
	for _, line := range strings.Split(rendered, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || reBlockIndex.MatchString(trimmed):
			continue
		case reBlockTime.MatchString(trimmed):
			doc.AddParagraph("").AddText(trimmed).Font(fontName).Size(10).Color("808080")
		default:
			speaker, text, ok := splitSpeaker(trimmed)
			p := doc.AddParagraph("")
			if ok {
				p.AddText(speaker + ": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
			}
			p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
		}
	}
}

// splitSpeaker parses "[speaker]: text".
func splitSpeaker(line string) (string, string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", line, false
	}
	speaker, text, ok := strings.Cut(line[1:], "]: ")
	if !ok {
		return "", line, false
	}
	return speaker, text, true
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

func safeFilename(title string) string {
	name := strings.Trim(reUnsafe.ReplaceAllString(title, "-"), "-")
	if name == "" {
		return "report"
	}
	return name
}
