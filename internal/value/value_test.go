package value

import "testing"

func TestInternReturnsSamePointer(t *testing.T) {
	a := Intern("foo")
	b := Intern("foo")
	if a != b {
		t.Fatalf("Intern(\"foo\") returned distinct pointers: %p != %p", a, b)
	}
	c := Intern("Foo")
	if a == c {
		t.Fatalf("Intern is case-insensitive, but symbols must be case-sensitive")
	}
}

func TestTruthy(t *testing.T) {
	if Truthy(NewBool(false)) {
		t.Fatalf("#f must be the only falsy value")
	}
	cases := []Value{NewBool(true), NewNumber(0), NewString(""), Nil(), Unspecified()}
	for _, v := range cases {
		if !Truthy(v) {
			t.Fatalf("%v should be truthy (everything but #f is)", v.Kind())
		}
	}
}

func TestEq(t *testing.T) {
	sym := Intern("x")
	if !Eq(NewSymbol(sym), NewSymbol(sym)) {
		t.Fatalf("same interned symbol must be eq?")
	}
	if !Eq(Nil(), Nil()) {
		t.Fatalf("() must be eq? to ()")
	}
	if !Eq(NewPair(Handle(3)), NewPair(Handle(3))) {
		t.Fatalf("pairs with the same handle must be eq?")
	}
	if Eq(NewPair(Handle(3)), NewPair(Handle(4))) {
		t.Fatalf("pairs with different handles must not be eq?")
	}
	if Eq(NewNumber(1), NewString("1")) {
		t.Fatalf("values of different kinds must never be eq?")
	}
}

func TestNumEq(t *testing.T) {
	if !NumEq(NewNumber(1.5), NewNumber(1.5)) {
		t.Fatalf("equal numbers must compare equal")
	}
	if NumEq(NewNumber(1), NewNumber(2)) {
		t.Fatalf("unequal numbers must not compare equal")
	}
}

func TestBoolRoundTrip(t *testing.T) {
	if NewBool(true).Bool() != true || NewBool(false).Bool() != false {
		t.Fatalf("Bool() did not round-trip through NewBool")
	}
}
