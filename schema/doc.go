// Package schema compiles JSON-schema-like tool input contracts into
// Descriptor trees and validates argument values against them.
//
// Tool servers publish heterogeneous schemas. The compiler is tolerant:
// anything it does not understand degrades to an Any descriptor instead of
// failing, so one odd tool never blocks discovery of the others.
//
// # Compilation
//
//	d := schema.Compile("search_Input", tool.InputSchema)
//	fmt.Println(d) // {query: string, limit?: integer}
//
// Supported constructs:
//
//   - "$ref" pointers into the document root ("#/$defs/Name")
//   - "enum" literal sets
//   - "object" with "properties" and "required"
//   - "array" with "items"
//   - the primitive types string, integer, number and boolean
//
// A schema without "type" that wraps its contract in a "schema" key is
// unwrapped first.
//
// Reference resolution tracks the chain of refs being expanded. A ref that
// points back into that chain compiles to Any, as does nesting deeper than
// MaxDepth.
//
// # Validation
//
//	if err := schema.Validate(d, args); err != nil {
//	    var verr *schema.ValidationError
//	    errors.As(err, &verr)
//	}
package schema
