// Package statics holds the pattern for post-hoc static member assignments
// (Component.propTypes = {...}) that class normalization hoists into an overlay.
package statics

// Queries matches `Identifier.name = value;` expression statements. The same
// pattern compiles against every supported grammar.
//
// Captures:
//   - @static.statement - the expression statement
//   - @static.class - the assigned-to identifier
//   - @static.name - the member name
//   - @static.value - the assigned value
const Queries = `
(expression_statement
  (assignment_expression
    left: (member_expression
      object: (identifier) @static.class
      property: (property_identifier) @static.name
    )
    right: (_) @static.value
  )
) @static.statement
`
