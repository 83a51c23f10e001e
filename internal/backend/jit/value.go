package jit

// Value is one runtime value. Which field is meaningful follows from the
// static type: I for i64, F for f64, Fields for structs.
type Value struct {
	I      int64
	F      float64
	Fields []Value
}

// frame holds the slots of one activation: parameters first, then one
// slot per let binding.
type frame struct {
	slots []Value
	depth int
}

type (
	evalFn func(fr *frame) (Value, error)
	// execFn runs one statement; done reports that it returned.
	execFn func(fr *frame) (ret Value, done bool, err error)
)
