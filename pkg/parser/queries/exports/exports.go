// Package exports holds the patterns locating ES module and CommonJS exports.
package exports

// Queries matches export sites in every supported grammar.
//
// Captures:
//   - @export.statement - any ES export statement (declarations, clauses,
//     default exports and re-exports are told apart by the caller)
//   - @export.commonjs.default - the value of `module.exports = value`
//   - @export.commonjs.name / @export.commonjs.value - `exports.name = value`
//     and `module.exports.name = value`
const Queries = `
(export_statement) @export.statement

(assignment_expression
  left: (member_expression
    object: (identifier) @_module (#eq? @_module "module")
    property: (property_identifier) @_exports (#eq? @_exports "exports")
  )
  right: (_) @export.commonjs.default
)

(assignment_expression
  left: (member_expression
    object: (identifier) @_exports (#eq? @_exports "exports")
    property: (property_identifier) @export.commonjs.name
  )
  right: (_) @export.commonjs.value
)

(assignment_expression
  left: (member_expression
    object: (member_expression
      object: (identifier) @_module (#eq? @_module "module")
      property: (property_identifier) @_exports (#eq? @_exports "exports")
    )
    property: (property_identifier) @export.commonjs.name
  )
  right: (_) @export.commonjs.value
)
`
