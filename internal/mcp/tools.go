package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateLandingPageTool defines the generate_landing_page MCP tool.
var generateLandingPageTool = mcp.NewTool("generate_landing_page",
	mcp.WithDescription("Generate a complete landing page (HTML+CSS) for a site brief and write it out as a deployable zip archive."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Site title / brand name"),
	),
	mcp.WithString("theme",
		mcp.Description("Style theme; see list_themes for the catalogue (defaults to the configured theme)"),
	),
	mcp.WithString("tagline",
		mcp.Description("Short tagline shown under the heading"),
	),
	mcp.WithString("meta_description",
		mcp.Description("Meta description for the page head"),
	),
	mcp.WithString("email",
		mcp.Description("Contact email used for the call-to-action"),
	),
	mcp.WithString("about",
		mcp.Description("About/introduction paragraph"),
	),
	mcp.WithString("features",
		mcp.Description("Comma-separated feature list"),
	),
	mcp.WithString("works",
		mcp.Description("Comma-separated portfolio/works list"),
	),
	mcp.WithString("testimonials",
		mcp.Description("Testimonials, one 'name|role|text' line each"),
	),
	mcp.WithNumber("temperature",
		mcp.Description("Generation temperature (defaults to the configured value)"),
	),
	mcp.WithString("output_path",
		mcp.Description("Where to write the zip (defaults to the configured export path)"),
	),
)

// listThemesTool defines the list_themes MCP tool.
var listThemesTool = mcp.NewTool("list_themes",
	mcp.WithDescription("List the built-in style themes accepted by generate_landing_page."),
)
