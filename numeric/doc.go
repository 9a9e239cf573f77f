// Package numeric tokenizes numeric literals and polynomial terms from free
// text and renders numbers in the interpreter's canonical display form.
//
// Floats always render with a fractional part or an exponent, so a stored 4
// reads back as 4.0:
//
//	numeric.Format(4)                       // "4.0"
//	numeric.FormatList([]float64{1, 2.5})   // "[1.0, 2.5]"
//	numeric.ParseList("1, 5 9,3")           // [1 5 9 3]
package numeric
