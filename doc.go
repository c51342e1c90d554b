// Package verdict provides composable predicates that validate nested values
// and explain why a value failed.
//
// - A Predicate answers Test(v) with a boolean and Explain(v) with an Explanation tree
// - Leaf predicates check one property of a value (type, shape, pattern, membership)
// - Structural combinators (IsListOf, IsDictWhere, And, Or, Not) delegate to children
// - Explanation.Summary flattens the failing leaves into a path-annotated report
// - Explanation.Issues bridges to an error model of JSON Pointer Issues
//
// Design policy:
//   - Predicates are immutable and pure; a tree may be shared across goroutines.
//   - Wrong-typed input is a validation outcome, never a panic. Only construction
//     with invalid parameters (for example an unparsable pattern) is a fault.
//   - Test may stop at the first failure; Explain collects every failing child.
//   - Put rules under rules/, input decoding under source/, and HTTP glue under
//     middleware/.
//
// Typical usage:
//
//	book := verdict.IsDictWhere(
//	    verdict.Required("title", verdict.IsStr()),
//	    verdict.Required("pubdate", verdict.IsDate()),
//	    verdict.Required("ISBN", verdict.MustMatch(`^\d{9}(\d|X)$`)),
//	)
//	books := verdict.IsListOf(book)
//
//	if !books.Test(v) {
//	    fmt.Println(books.Explain(v).Summary())
//	}
//
// Output for two malformed entries:
//
//	Data is not valid.
//	[1:'pubdate'] '1997-6-26' is not a date
//	[2:'ISBN'] '0-618-57494-8' does not match /^\d{9}(\d|X)$/
package verdict
