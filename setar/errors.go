package setar

import "fmt"

// InvalidRegimeError reports a candidate partition that leaves a regime with
// fewer observations than the configured minimum. During hyperparameter
// search it is a routine signal that excludes the candidate; it only reaches
// the caller when user-supplied hyperparameters produce an invalid partition.
type InvalidRegimeError struct {
	Regime int
	Count  int
	Min    int
}

func (e *InvalidRegimeError) Error() string {
	return fmt.Sprintf("setar: regime %d has too few observations (%d < %d): threshold values may need to be adjusted",
		e.Regime, e.Count, e.Min)
}

// NumericError reports a degenerate design matrix encountered while scoring a
// candidate or preparing the search baseline. Inside the search it excludes
// the candidate; on the terminal fit it is fatal.
type NumericError struct {
	Op  string
	Err error
}

func (e *NumericError) Error() string {
	return "setar: " + e.Op + ": " + e.Err.Error()
}

func (e *NumericError) Unwrap() error { return e.Err }
