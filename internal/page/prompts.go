package page

import (
	"encoding/json"
	"fmt"
)

const generateSystemPrompt = `You are a senior landing-page designer and front-end engineer. You produce complete, self-contained HTML and CSS and you always respond with a single valid JSON object, nothing else.`

const editSystemPrompt = `You are a front-end engineer refining an existing landing page. You always respond with a single valid JSON object, nothing else.`

const generatePromptTemplate = `Generate a complete landing page from scratch for the requirements below.

# Goal
- A page in the "%s" theme that reads as clearly distinct at first glance.
- Vary structure, decoration, typography, spacing and motion between runs.
- No JavaScript and no external resources: pure HTML and CSS only. Images are placeholder rectangles.

# Input data
- title: %s
- tagline: %s
- meta_description: %s
- contact_email: %s
- about: %s
- features: %s
- works: %s
- testimonials: %s
- style_seed: %d

# Output contract
Respond with exactly one JSON object in this shape:
{"title": "string", "meta": {"description": "string"}, "css": "string", "body_html": "string"}
- "css" is a complete stylesheet. Declare every color, radius, shadow, border and background value as a custom property inside a single :root block and reference them with var() throughout.
- "body_html" is the markup that goes between <body> and </body> only. Do not include <html>, <head> or <body> tags.

# Design rules
- The same theme must still produce a different layout, shapes and decoration from one style_seed to another.
- Every image is a placeholder block: <div aria-label="image" class="img img--hero"></div> (vary the modifier class). Never use <img> tags or real image URLs.
- Include at least one call-to-action linking to mailto:%s.
- Use the h1 for the main heading and a <p class="sub"> or <p class="lead"> for the supporting line under it.

# Forbidden
- <script> tags, inline event handlers, external URLs, @import, web fonts, real image files.`

const editPromptTemplate = `Below is the current landing page. Apply the instruction and return the updated page.

# Current CSS
%s

# Current body HTML
%s

# Instruction
%s

# Output contract
Respond with exactly one JSON object in this shape:
{"css": "string", "body_html": "string"}
- Return the complete updated CSS and the complete updated body HTML, not a diff.
- If the instruction does not require changing one of the two, return an empty string "" for that field.
- Keep the :root custom-property block and keep image placeholders as <div> blocks.
- No <script> tags, inline event handlers or external resources.`

// jsonList renders a prompt input slice as compact JSON so the model
// sees unambiguous field boundaries.
func jsonList(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func buildGeneratePrompt(theme string, brief Brief, seed int) string {
	return fmt.Sprintf(generatePromptTemplate,
		theme,
		brief.Title,
		brief.Tagline,
		brief.MetaDescription,
		brief.Email,
		brief.About,
		jsonList(brief.Features),
		jsonList(brief.Works),
		jsonList(brief.Testimonials),
		seed,
		brief.Email,
	)
}

func buildEditPrompt(css, bodyHTML, instruction string) string {
	return fmt.Sprintf(editPromptTemplate, css, bodyHTML, instruction)
}
