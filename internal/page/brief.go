package page

import "strings"

// Testimonial is one customer quote, parsed from a "name|role|text"
// line. It is a prompt-construction input only and never mutated after
// parse.
type Testimonial struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// Brief carries the business details a landing page is generated from.
type Brief struct {
	Title           string        `json:"title"`
	Tagline         string        `json:"tagline"`
	MetaDescription string        `json:"meta_description"`
	Email           string        `json:"email"`
	About           string        `json:"about"`
	Features        []string      `json:"features"`
	Works           []string      `json:"works"`
	Testimonials    []Testimonial `json:"testimonials"`
}

// SplitList splits a comma-separated input into trimmed, non-empty
// entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseTestimonials parses "name|role|text" lines. Lines with fewer
// than three fields are skipped; extra pipes stay part of the text.
func ParseTestimonials(s string) []Testimonial {
	var rows []Testimonial
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		rows = append(rows, Testimonial{
			Name: parts[0],
			Role: parts[1],
			Text: strings.Join(parts[2:], "|"),
		})
	}
	return rows
}
