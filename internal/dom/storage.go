//go:build js && wasm

package dom

import "syscall/js"

// LocalStore keeps the chosen locale in localStorage, mirroring the hl
// cookie the server sets on every locale visit. The root redirect reads the
// cookie; Get lets locale.Remember skip redundant writes. Storage failures
// (disabled storage, private mode quotas) are swallowed.
type LocalStore struct{ key string }

func NewLocalStore(key string) *LocalStore { return &LocalStore{key: key} }

func (s *LocalStore) Get() (value string, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()
	v := js.Global().Get("localStorage").Call("getItem", s.key)
	if !present(v) {
		return "", false
	}
	return v.String(), v.String() != ""
}

func (s *LocalStore) Set(lang string) {
	defer func() { _ = recover() }()
	js.Global().Get("localStorage").Call("setItem", s.key, lang)
}
