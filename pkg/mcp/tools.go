package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const resolverDescription = "Which definitions to document: " +
	"'exported' (the single exported component, the default), " +
	"'all-exported' (every exported component) or 'all' (every component in the file)"

func parseComponentDocsTool() mcp.Tool {
	return mcp.NewTool("parse_component_docs",
		mcp.WithDescription("Extract documentation (props, prop types, Flow/TypeScript types, defaults, "+
			"descriptions, methods) from React component source code"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Component source code")),
		mcp.WithString("filename",
			mcp.Description("File name used to pick the language, e.g. Button.tsx; defaults to JavaScript")),
		mcp.WithString("resolver",
			mcp.Description(resolverDescription),
			mcp.Enum("exported", "all-exported", "all")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func parseFileDocsTool() mcp.Tool {
	return mcp.NewTool("parse_file_docs",
		mcp.WithDescription("Extract documentation from a React component file on disk. "+
			"Relative imports are followed to resolve shared prop types"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the component file, absolute or relative to the server root")),
		mcp.WithString("resolver",
			mcp.Description(resolverDescription),
			mcp.Enum("exported", "all-exported", "all")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
