// Package tools provides the role-gated tool catalog of the AI copilot.
//
// # Architecture
//
// This package implements the tool layer of the agent pipeline, providing:
//   - Tool definitions with JSON-schema described parameters
//   - Pure executors for the built-in business-planning tools
//   - A registry mapping platform roles to the tools they may invoke
//
// # Design Principles
//
//   - Dependency Injection: loggers and collaborators passed as parameters
//   - No Package-Level State: the registry is an explicit object
//   - Fail Fast: role mappings are verified at registry construction,
//     turning a dangling tool name into a startup error instead of a
//     runtime lookup miss
//
// # Tool Catalog
//
//  1. financial_calculator: valuation, runway, burn rate, ROI, DSCR,
//     LTV, CAC, CLV
//  2. data_analyzer: trend, distribution, correlation, summary, outliers
//  3. document_processor: text, tables, metadata, structured data
//  4. chart_generator: declarative chart specifications
//
// # Usage
//
//	registry, err := tools.NewRegistry(logger)
//	if err != nil { ... }
//	for _, def := range registry.ForUserType("investor") {
//	    fmt.Println(def.Name(), def.Description())
//	}
package tools
