package envfile

import (
	"testing"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func mustValue(t *testing.T, raw string) Value {
	t.Helper()
	e, err := ParseEntry(raw)
	if err != nil {
		t.Fatalf("ParseEntry(%q) error = %v", raw, err)
	}
	if !e.HasValue() {
		t.Fatalf("ParseEntry(%q) has no value", raw)
	}
	return *e.Value
}

func TestResolve(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"NVAR1": "Hello",
		"NVAR2": "World!",
		"LOOP":  "${NVAR1}",
		"EMPTY": "",
	})

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"two references", `NVAR3="${NVAR1} ${NVAR2}"`, "Hello World!"},
		{"unquoted reference", `X=${NVAR1}`, "Hello"},
		{"adjacent references", `X=${NVAR1}${NVAR2}`, "HelloWorld!"},
		{"undefined stays literal", `X="${UNDEFINED}"`, "${UNDEFINED}"},
		{"bare dollar stays", `X=$NVAR1`, "$NVAR1"},
		{"double dollar", `X="$${NVAR1}"`, "$Hello"},
		{"empty braces", `X="${}"`, "${}"},
		{"escaped dollar is not a reference", `X="\${NVAR1}"`, "${NVAR1}"},
		{"single quotes are not references", `X='${NVAR1}'`, "${NVAR1}"},
		{"no rescan of substituted text", `X=${LOOP}`, "${NVAR1}"},
		{"empty value substitutes", `X="[${EMPTY}]"`, "[]"},
		{"text around", `X="a ${NVAR2} b"`, "a World! b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(mustValue(t, tt.raw), lookup); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveWithoutVarsIsIdentity(t *testing.T) {
	v := NewValue("${NVAR1} untouched")
	called := false
	got := Resolve(v, func(string) (string, bool) {
		called = true
		return "x", true
	})
	if got != v.Chars() {
		t.Errorf("Resolve() = %q, want %q", got, v.Chars())
	}
	if called {
		t.Error("lookup should not be called without recorded vars")
	}
}

func TestResolveIgnoresOutOfRangeOffsets(t *testing.T) {
	v := NewValue("${A}", 10, 0)
	if got := Resolve(v, mapLookup(map[string]string{"A": "ok"})); got != "ok" {
		t.Errorf("Resolve() = %q, want ok", got)
	}
}
