// Package definitions holds the tree-sitter patterns that collect candidate
// component definitions: every function-like node, class and call.
package definitions

// JSQueries matches definition candidates in the JavaScript grammar.
//
// Captures:
//   - @definition.function - functions, arrows, generators and object methods
//   - @definition.class - class declarations and class expressions
//   - @definition.call - calls (createClass and forwardRef candidates)
const JSQueries = `
(function_declaration) @definition.function
(generator_function_declaration) @definition.function
(function_expression) @definition.function
(generator_function) @definition.function
(arrow_function) @definition.function
(method_definition) @definition.function

(class_declaration) @definition.class
(class) @definition.class

(call_expression) @definition.call
`
