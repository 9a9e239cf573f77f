// Package algebra evaluates arithmetic expressions and solves single-variable
// linear equations.
//
// Solve treats (lhs)-(rhs) as an affine function of the variable and probes
// it at 0 and 1 to recover the slope and intercept:
//
//	sol, err := algebra.Solve("2x", "4")
//	// sol.Variable == "x", sol.Root == 2, len(sol.Steps) == 3
package algebra
