package main

// The site loads these two files from public/assets. Run `go generate ./cmd/navwasm`
// before serving or packaging the site.
//go:generate sh -c "GOOS=js GOARCH=wasm go build -trimpath -ldflags=-s -o ../../public/assets/wasm/nav.wasm ."
//go:generate cp $GOROOT/lib/wasm/wasm_exec.js ../../public/assets/js/wasm_exec.js
