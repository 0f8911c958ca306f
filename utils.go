package main

import (
	"errors"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"
)

var errNoImage = errors.New("clipboard holds no image reference")

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// pasteImage reads the clipboard off the event loop and reports what it
// found as a pastedMsg.
func pasteImage() tea.Msg {
	text, err := readClipboardText()
	if err != nil {
		return pastedMsg{err: err}
	}
	src, err := imageSource(text, fileExists)
	return pastedMsg{source: src, err: err}
}

func pasteBackground() tea.Msg {
	return backgroundPastedMsg(pasteImage().(pastedMsg))
}

// pasteText reads plain text for the inline text editor.
func pasteText() tea.Msg {
	text, err := readClipboardText()
	if err != nil {
		return pastedTextMsg("")
	}
	return pastedTextMsg(cleanClipboardText(text))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// imageSource turns clipboard text into an element image source: a data
// URL, an http(s) or file URL, the first <img src> of an HTML fragment, or
// an existing image file path.
func imageSource(text string, exists func(string) bool) (string, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", errNoImage
	case strings.HasPrefix(text, "data:image/"):
		return text, nil
	case isHTML(text):
		if src := firstImgSrc(text); src != "" {
			return src, nil
		}
		return "", errNoImage
	}

	if u, err := url.Parse(text); err == nil && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https":
			return text, nil
		case "file":
			if exists(u.Path) {
				return u.Path, nil
			}
		}
		return "", errNoImage
	}

	path := text
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if imageExts[strings.ToLower(filepath.Ext(path))] && exists(path) {
		if abs, err := filepath.Abs(path); err == nil {
			return abs, nil
		}
		return path, nil
	}
	return "", errNoImage
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") ||
			strings.Contains(text, "<div") || strings.Contains(text, "<img"))
}

// firstImgSrc walks an HTML fragment for the first image with a source.
func firstImgSrc(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" && a.Val != "" {
					return a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if src := walk(c); src != "" {
				return src
			}
		}
		return ""
	}
	return walk(doc)
}

// htmlText flattens an HTML fragment to its text content.
func htmlText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.Data == "br" || n.Data == "p" || n.Data == "div"):
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}

func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if isHTML(text) {
		text = htmlText(text)
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") && !strings.Contains(text, "\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r == '\\' {
			if i+1 < len(runes) {
				next := runes[i+1]
				if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') {
					start := i + 1
					i++
					for i < len(runes) {
						if runes[i] == ' ' || runes[i] == '\\' || runes[i] == '{' || runes[i] == '}' {
							break
						}
						i++
					}
					word := strings.TrimRight(string(runes[start:i]), "-0123456789")
					if word == "par" || word == "line" {
						result.WriteByte('\n')
					}
					if i < len(runes) && runes[i] != ' ' {
						i--
					}
					continue
				} else if next == '\\' || next == '{' || next == '}' {
					result.WriteRune(next)
					i++
					continue
				}
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
