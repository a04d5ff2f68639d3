package mcp

import "github.com/mark3labs/mcp-go/mcp"

// detectTextTool defines the detect_text MCP tool.
var detectTextTool = mcp.NewTool("detect_text",
	mcp.WithDescription("Classify text as Human-written, AI-paraphrased or AI-generated. Returns the prediction, class probabilities and the text with influential words highlighted."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to analyse"),
	),
	mcp.WithBoolean("save",
		mcp.Description("Store the result in the local history (default true)"),
	),
)

// highlightTextTool defines the highlight_text MCP tool.
var highlightTextTool = mcp.NewTool("highlight_text",
	mcp.WithDescription("Mark the words of a text that appear in an explanation list, without calling the detector. Returns Markdown and the segment list as JSON."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Source text"),
	),
	mcp.WithString("explanation_json",
		mcp.Required(),
		mcp.Description(`JSON array of {"word": string, "weight": number}; malformed entries are ignored`),
	),
)

// listHistoryTool defines the list_history MCP tool.
var listHistoryTool = mcp.NewTool("list_history",
	mcp.WithDescription("List recent stored analyses, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of analyses to return (default 10)"),
	),
	mcp.WithString("label",
		mcp.Description("Only return analyses with this prediction"),
		mcp.Enum("Human-written", "AI-paraphrased", "AI-generated"),
	),
)

// getTrendsTool defines the get_trends MCP tool.
var getTrendsTool = mcp.NewTool("get_trends",
	mcp.WithDescription("Per-year counts and percentages of stored predictions, as CSV."),
	mcp.WithNumber("from",
		mcp.Description("First year to include"),
	),
	mcp.WithNumber("to",
		mcp.Description("Last year to include"),
	),
)
