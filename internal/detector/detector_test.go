package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_Extension(t *testing.T) {
	d := New()
	tests := []struct {
		path string
		want string
	}{
		{"main.py", "python"},
		{"gui.pyw", "python"},
		{"stubs/types.pyi", "python"},
		{"index.js", "javascript"},
		{"module.MJS", "javascript"},
		{"config.cjs", "javascript"},
		{"App.jsx", "javascript"},
		{"main.rs", Unknown},
		{"Makefile", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectPath(tt.path))
		})
	}
}

func TestDetect_Shebang(t *testing.T) {
	d := New()
	assert.Equal(t, "python", d.Detect("", []byte("#!/usr/bin/env python3\nx = 1\n")))
	assert.Equal(t, "python", d.Detect("script", []byte("#!/usr/bin/python\n")))
	assert.Equal(t, "javascript", d.Detect("", []byte("#!/usr/bin/env -S node --harmony\n")))
	assert.Equal(t, Unknown, d.Detect("", []byte("#!/bin/sh\necho hi\n")))
}

func TestDetect_ExtensionWinsOverContent(t *testing.T) {
	d := New()
	assert.Equal(t, "javascript", d.Detect("a.js", []byte("def f():\n    return None\n")))
}

func TestDetect_Content(t *testing.T) {
	d := New()

	py := "import os\n\ndef main():\n    print(os.getcwd())\n\nif __name__ == '__main__':\n    main()\n"
	assert.Equal(t, "python", d.Detect("", []byte(py)))

	js := "const fs = require('fs');\nfunction main() {\n  console.log(fs.existsSync('x'));\n}\n"
	assert.Equal(t, "javascript", d.Detect("", []byte(js)))
}

func TestDetect_Unknown(t *testing.T) {
	d := New()
	assert.Equal(t, Unknown, d.Detect("", nil))
	assert.Equal(t, Unknown, d.Detect("", []byte("   \n\t")))
	assert.Equal(t, Unknown, d.Detect("notes.txt", []byte("hello world")))
}
