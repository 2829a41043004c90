package definitions

// TSQueries matches definition candidates in the TypeScript and TSX grammars.
// It extends JSQueries with abstract classes.
const TSQueries = JSQueries + `
(abstract_class_declaration) @definition.class
`
