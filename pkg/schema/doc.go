// Package schema derives value contracts for answer-producing blocks and
// sanitizes respondent values before they are validated or persisted.
//
// It defines a small type system (string, number, bool, slices, objects and
// custom validators) and maps every block kind onto a Contract:
//
//	c := schema.Derive(block) // nil for presentation blocks
//	if c != nil {
//	    value, err := c.Check(schema.Sanitize(raw), true)
//	    if err != nil {
//	        // err is a *schema.ValidationError naming the block label
//	    }
//	}
//
// Derive is a total function over block kinds: kinds it does not recognize
// degrade to "accept anything, optional" so that forms published before a
// new kind existed keep accepting submissions.
//
// Custom validators can be composed for domain-specific shapes:
//
//	evenLength := schema.Custom("even", func(v any) error {
//	    s, ok := v.(string)
//	    if !ok || len(s)%2 != 0 {
//	        return fmt.Errorf("expected even-length string")
//	    }
//	    return nil
//	})
package schema
