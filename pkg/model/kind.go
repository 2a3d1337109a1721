package model

// ElementKind is the closed set of element variants.
type ElementKind int

const (
	ElementClass ElementKind = iota + 1
	ElementInterface
)

// String returns the artifact discriminator for the kind.
func (k ElementKind) String() string {
	switch k {
	case ElementClass:
		return "class"
	case ElementInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared variants.
func (k ElementKind) Valid() bool {
	switch k {
	case ElementClass, ElementInterface:
		return true
	default:
		return false
	}
}

// ParseElementKind maps an artifact discriminator back to its kind.
func ParseElementKind(s string) (ElementKind, error) {
	switch s {
	case "class":
		return ElementClass, nil
	case "interface":
		return ElementInterface, nil
	default:
		return 0, &UnknownVariantError{Context: "element", Value: s}
	}
}

// ConnectionKind is the closed set of connection variants.
type ConnectionKind int

const (
	Extends ConnectionKind = iota + 1
	Implements
	Aggregates
	Uses
)

// String returns the artifact discriminator for the kind.
func (k ConnectionKind) String() string {
	switch k {
	case Extends:
		return "extends"
	case Implements:
		return "implements"
	case Aggregates:
		return "aggregates"
	case Uses:
		return "uses"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared variants.
func (k ConnectionKind) Valid() bool {
	switch k {
	case Extends, Implements, Aggregates, Uses:
		return true
	default:
		return false
	}
}

// ParseConnectionKind maps an artifact discriminator back to its kind.
func ParseConnectionKind(s string) (ConnectionKind, error) {
	switch s {
	case "extends":
		return Extends, nil
	case "implements":
		return Implements, nil
	case "aggregates":
		return Aggregates, nil
	case "uses":
		return Uses, nil
	default:
		return 0, &UnknownVariantError{Context: "connection", Value: s}
	}
}

// ElementKinds lists every element kind in declaration order.
func ElementKinds() []ElementKind {
	return []ElementKind{ElementClass, ElementInterface}
}

// ConnectionKinds lists every connection kind in declaration order.
func ConnectionKinds() []ConnectionKind {
	return []ConnectionKind{Extends, Implements, Aggregates, Uses}
}
