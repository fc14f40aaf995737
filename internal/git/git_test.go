package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/app/main.py b/app/main.py
index 83db48f..bf269f4 100644
--- a/app/main.py
+++ b/app/main.py
@@ -3,0 +4,2 @@ import os
+import sys
+import json
@@ -10 +12 @@ def main():
-    print("old")
+    print("new")
diff --git a/old.js b/old.js
deleted file mode 100644
index 1111111..0000000
--- a/old.js
+++ /dev/null
@@ -1,3 +0,0 @@
-const a = 1;
-const b = 2;
-const c = 3;
diff --git a/lib/new.js b/lib/new.js
new file mode 100644
index 0000000..2222222
--- /dev/null
+++ b/lib/new.js
@@ -0,0 +1,3 @@
+export function f() {
+  return 1;
+}
diff --git a/trim.py b/trim.py
index 3333333..4444444 100644
--- a/trim.py
+++ b/trim.py
@@ -5,2 +4,0 @@ x = 1
-y = 2
-z = 3
`

func TestParseDiff(t *testing.T) {
	files, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)

	assert.Equal(t, []ChangedFile{
		{Path: "app/main.py", ChangedLines: []int{4, 5, 12}},
		{Path: "lib/new.js", ChangedLines: []int{1, 2, 3}},
		{Path: "trim.py", ChangedLines: []int{}},
	}, files)
}

func TestParseDiff_Empty(t *testing.T) {
	files, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParseDiff_MalformedHunk(t *testing.T) {
	_, err := parseDiff([]byte("diff --git a/x.py b/x.py\n+++ b/x.py\n@@ nonsense @@\n"))
	assert.Error(t, err)
}
