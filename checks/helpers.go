package checks

import "fmt"

// expect turns a boolean SQL predicate into a statement that fails when
// the predicate is false. The division by zero carries the predicate in
// the error message via the surrounding statement text.
func expect(predicate string) string {
	return fmt.Sprintf("SELECT 1 / CASE WHEN (%s) THEN 1 ELSE 0 END", predicate)
}

// expectQueryEquals asserts a single-value query against an expected
// literal.
func expectQueryEquals(query, literal string) string {
	return expect(fmt.Sprintf("(%s) = %s", query, literal))
}
