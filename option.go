package displaylist

// Option holds a value that may be absent. The zero value is None.
type Option[T any] struct {
	isSet bool
	value T
}

func Some[T any](v T) Option[T] {
	return Option[T]{
		isSet: true,
		value: v,
	}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (opt Option[T]) IsSet() bool { return opt.isSet }

func (opt Option[T]) Get() (T, bool) {
	return opt.value, opt.isSet
}

func (opt *Option[T]) set(v T) {
	opt.isSet = true
	opt.value = v
}

func (opt *Option[T]) clear() {
	opt.isSet = false
	opt.value = *new(T)
}

func (opt Option[T]) Unwrap() T {
	if !opt.isSet {
		panic("option isn't set")
	}
	return opt.value
}

func (opt Option[T]) UnwrapOr(alt T) T {
	if opt.isSet {
		return opt.value
	} else {
		return alt
	}
}

func (opt Option[T]) expect(msg string) T {
	if opt.isSet {
		return opt.value
	} else {
		panic(msg)
	}
}

func (opt *Option[T]) take() Option[T] {
	out := *opt
	opt.clear()
	return out
}
