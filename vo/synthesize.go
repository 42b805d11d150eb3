package vo

// Synthesize defines a class for a payload type that is only known through
// its validator, binding it to the most specific kind the registry offers
// for that type. A nil registry means DefaultRegistry.
func Synthesize[T any](reg *Registry, name string, validator Validator[T], opts ...Option) (*Class[T], error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	kind := reg.SelectBest(rawTypeOf(validator))
	tr := defaultTraits[T]()
	if kind == DateKind || kind == DateTimeKind {
		tr.truthy = func(T) bool { return true }
	}
	return define(name, validator, kind, tr, append([]Option{WithKind(kind)}, opts...))
}
