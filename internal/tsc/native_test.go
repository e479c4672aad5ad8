package tsc

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/sfc-tools/tsconf/internal/hostfs"
)

func newHost(t *testing.T, files map[string]string) *hostfs.Afero {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return hostfs.NewAfero(fs, true)
}

func TestNative_ReadConfigFile(t *testing.T) {
	host := newHost(t, map[string]string{
		"/p/plain.json": `{"compilerOptions": {"strict": true}, "files": ["a.ts"]}`,
		"/p/comments.json": `{
			// line comment
			"compilerOptions": {
				"target": "es2020", /* block */
			},
			"include": ["src"],
		}`,
		"/p/empty.json":   "",
		"/p/invalid.json": `{"compilerOptions": {"strict": tru}`,
		"/p/wrong.json":   `{"compilerOptions": "strict"}`,
	})

	tests := []struct {
		name     string
		path     string
		expected RawConfig
		code     int
	}{
		{
			name: "plain JSON",
			path: "/p/plain.json",
			expected: RawConfig{
				CompilerOptions: Options{"strict": true},
				Files:           []string{"a.ts"},
			},
		},
		{
			name: "comments and trailing commas",
			path: "/p/comments.json",
			expected: RawConfig{
				CompilerOptions: Options{"target": "es2020"},
				Include:         []string{"src"},
			},
		},
		{
			name:     "empty file",
			path:     "/p/empty.json",
			expected: RawConfig{CompilerOptions: Options{}},
		},
		{
			name:     "invalid JSON",
			path:     "/p/invalid.json",
			expected: DefaultRawConfig(),
			code:     CodeFailedToParseFile,
		},
		{
			name:     "wrong option type",
			path:     "/p/wrong.json",
			expected: DefaultRawConfig(),
			code:     CodeFailedToParseFile,
		},
		{
			name:     "missing file",
			path:     "/p/missing.json",
			expected: DefaultRawConfig(),
			code:     CodeCannotReadFile,
		},
	}

	compiler := NewNative("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, diag := compiler.ReadConfigFile(tt.path, host.ReadFile)

			if tt.code == 0 && diag != nil {
				t.Fatalf("unexpected diagnostic: %v", diag)
			}
			if tt.code != 0 {
				if diag == nil {
					t.Fatalf("expected diagnostic TS%d but got none", tt.code)
				}
				if diag.Code != tt.code {
					t.Errorf("expected diagnostic TS%d, got TS%d", tt.code, diag.Code)
				}
			}
			if diff := cmp.Diff(tt.expected, raw); diff != "" {
				t.Errorf("ReadConfigFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNative_Version(t *testing.T) {
	if got := NewNative("").Version(); got != DefaultVersion {
		t.Errorf("Version() = %q, want %q", got, DefaultVersion)
	}
	if got := NewNative("4.9.5").Version(); got != "4.9.5" {
		t.Errorf("Version() = %q, want %q", got, "4.9.5")
	}
}

var projectFiles = map[string]string{
	"/proj/src/index.ts":              "",
	"/proj/src/view.tsx":              "",
	"/proj/src/legacy.js":             "",
	"/proj/src/types.d.ts":            "",
	"/proj/test/index.test.ts":        "",
	"/proj/node_modules/dep/index.ts": "",
	"/proj/dist/index.ts":             "",
}

func TestNative_ParseJSONConfigFileContent(t *testing.T) {
	host := newHost(t, projectFiles)

	tests := []struct {
		name      string
		raw       RawConfig
		options   Options
		fileNames []string
		codes     []int
	}{
		{
			name:    "default include with default excludes",
			raw:     RawConfig{CompilerOptions: Options{}},
			options: Options{},
			fileNames: []string{
				"/proj/dist/index.ts",
				"/proj/src/index.ts",
				"/proj/src/types.d.ts",
				"/proj/src/view.tsx",
				"/proj/test/index.test.ts",
			},
		},
		{
			name:    "outDir is excluded and made absolute",
			raw:     RawConfig{CompilerOptions: Options{"outDir": "dist"}},
			options: Options{"outDir": "/proj/dist"},
			fileNames: []string{
				"/proj/src/index.ts",
				"/proj/src/types.d.ts",
				"/proj/src/view.tsx",
				"/proj/test/index.test.ts",
			},
		},
		{
			name:    "allowJs adds script files",
			raw:     RawConfig{CompilerOptions: Options{"allowJs": true}, Include: []string{"src"}},
			options: Options{"allowJs": true},
			fileNames: []string{
				"/proj/src/index.ts",
				"/proj/src/legacy.js",
				"/proj/src/types.d.ts",
				"/proj/src/view.tsx",
			},
		},
		{
			name: "explicit files come first and are not repeated",
			raw: RawConfig{
				CompilerOptions: Options{},
				Files:           []string{"src/view.tsx"},
				Include:         []string{"src"},
			},
			options: Options{},
			fileNames: []string{
				"/proj/src/view.tsx",
				"/proj/src/index.ts",
				"/proj/src/types.d.ts",
			},
		},
		{
			name:      "explicit files only",
			raw:       RawConfig{CompilerOptions: Options{}, Files: []string{"src/index.ts", "/abs/other.ts"}},
			options:   Options{},
			fileNames: []string{"/proj/src/index.ts", "/abs/other.ts"},
		},
		{
			name:      "no inputs",
			raw:       RawConfig{CompilerOptions: Options{}, Include: []string{"lib"}},
			options:   Options{},
			fileNames: []string{},
			codes:     []int{CodeNoInputsFound},
		},
		{
			name:      "empty files list",
			raw:       RawConfig{CompilerOptions: Options{}, Files: []string{}},
			options:   Options{},
			fileNames: []string{},
			codes:     []int{CodeEmptyFilesList},
		},
		{
			name: "path list options",
			raw: RawConfig{
				CompilerOptions: Options{"rootDirs": []any{"src", "/gen"}, "baseUrl": "."},
				Files:           []string{"src/index.ts"},
			},
			options:   Options{"rootDirs": []any{"/proj/src", "/gen"}, "baseUrl": "/proj"},
			fileNames: []string{"/proj/src/index.ts"},
		},
	}

	compiler := NewNative("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := compiler.ParseJSONConfigFileContent(tt.raw, host, "/proj", "/proj/tsconfig.json")

			if diff := cmp.Diff(tt.options, parsed.Options); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.fileNames, parsed.FileNames); diff != "" {
				t.Errorf("file names mismatch (-want +got):\n%s", diff)
			}
			var codes []int
			for _, d := range parsed.Errors {
				codes = append(codes, d.Code)
			}
			if diff := cmp.Diff(tt.codes, codes); diff != "" {
				t.Errorf("diagnostic codes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.raw, parsed.Raw); diff != "" {
				t.Errorf("raw config was modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNative_EmptyFilesWithoutConfigFile(t *testing.T) {
	parsed := NewNative("").ParseJSONConfigFileContent(DefaultRawConfig(), newHost(t, projectFiles), "/proj", "")

	if len(parsed.Errors) != 0 {
		t.Errorf("expected no diagnostics, got %v", parsed.Errors)
	}
	if len(parsed.FileNames) != 0 {
		t.Errorf("expected no files, got %v", parsed.FileNames)
	}
}

func TestNative_Extends(t *testing.T) {
	files := map[string]string{
		"/repo/tsconfig.base.json": `{
			"compilerOptions": {"strict": true, "target": "es2017", "outDir": "build"},
			"include": ["shared"]
		}`,
		"/repo/app/tsconfig.json":                           `{"extends": "../tsconfig.base"}`,
		"/repo/app/src/main.ts":                             "",
		"/repo/node_modules/@tsconfig/node18/tsconfig.json": `{"compilerOptions": {"module": "node16"}}`,
		"/repo/cycle/a.json":                                `{"extends": "./b.json"}`,
		"/repo/cycle/b.json":                                `{"extends": "./a.json"}`,
		"/repo/base/tsconfig.json":                          `{"include": ["src"]}`,
		"/repo/base/src/a.ts":                               "",
		"/repo/web/tsconfig.json":                           `{"extends": "../base/tsconfig.json"}`,
		"/repo/web/local.ts":                                "",
	}
	host := newHost(t, files)
	compiler := NewNative("")

	t.Run("relative base", func(t *testing.T) {
		raw := RawConfig{
			CompilerOptions: Options{"target": "es2022"},
			Include:         []string{"src"},
			Extends:         "../tsconfig.base",
		}
		parsed := compiler.ParseJSONConfigFileContent(raw, host, "/repo/app", "/repo/app/tsconfig.json")

		expected := Options{"strict": true, "target": "es2022", "outDir": "/repo/build"}
		if diff := cmp.Diff(expected, parsed.Options); diff != "" {
			t.Errorf("options mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"/repo/app/src/main.ts"}, parsed.FileNames); diff != "" {
			t.Errorf("file names mismatch (-want +got):\n%s", diff)
		}
		if len(parsed.Errors) != 0 {
			t.Errorf("unexpected diagnostics: %v", parsed.Errors)
		}
	})

	t.Run("include inherited from a sibling directory", func(t *testing.T) {
		raw := RawConfig{CompilerOptions: Options{}, Extends: "../base/tsconfig.json"}
		parsed := compiler.ParseJSONConfigFileContent(raw, host, "/repo/web", "/repo/web/tsconfig.json")

		if diff := cmp.Diff([]string{"/repo/base/src/a.ts"}, parsed.FileNames); diff != "" {
			t.Errorf("file names mismatch (-want +got):\n%s", diff)
		}
		if len(parsed.Errors) != 0 {
			t.Errorf("unexpected diagnostics: %v", parsed.Errors)
		}
	})

	t.Run("package base", func(t *testing.T) {
		raw := RawConfig{
			CompilerOptions: Options{},
			Files:           []string{"src/main.ts"},
			Extends:         "@tsconfig/node18",
		}
		parsed := compiler.ParseJSONConfigFileContent(raw, host, "/repo/app", "/repo/app/tsconfig.json")

		if diff := cmp.Diff(Options{"module": "node16"}, parsed.Options); diff != "" {
			t.Errorf("options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing base", func(t *testing.T) {
		raw := RawConfig{CompilerOptions: Options{}, Files: []string{"src/main.ts"}, Extends: "./nope.json"}
		parsed := compiler.ParseJSONConfigFileContent(raw, host, "/repo/app", "/repo/app/tsconfig.json")

		if len(parsed.Errors) != 1 || parsed.Errors[0].Code != CodeFileNotFound {
			t.Errorf("expected TS%d, got %v", CodeFileNotFound, parsed.Errors)
		}
	})

	t.Run("circular chain", func(t *testing.T) {
		raw := RawConfig{CompilerOptions: Options{}, Files: []string{"x.ts"}, Extends: "./b.json"}
		parsed := compiler.ParseJSONConfigFileContent(raw, host, "/repo/cycle", "/repo/cycle/a.json")

		if len(parsed.Errors) != 1 || parsed.Errors[0].Code != CodeCircularExtends {
			t.Errorf("expected TS%d, got %v", CodeCircularExtends, parsed.Errors)
		}
	})
}

func TestNative_RemappedHost(t *testing.T) {
	host := hostfs.Remap(newHost(t, map[string]string{
		"/proj/src/App.vue":   "",
		"/proj/src/main.ts":   "",
		"/proj/src/style.css": "",
	}), hostfs.RewriteRule{Suffix: ".ts", Extensions: []string{".vue"}})

	parsed := NewNative("").ParseJSONConfigFileContent(RawConfig{CompilerOptions: Options{}}, host, "/proj", "")

	expected := []string{"/proj/src/App.vue.ts", "/proj/src/main.ts"}
	if diff := cmp.Diff(expected, parsed.FileNames); diff != "" {
		t.Errorf("file names mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "with file",
			diag:     Diagnostic{Code: 5014, Category: CategoryError, File: "/p/tsconfig.json", Message: "Failed to parse file."},
			expected: "/p/tsconfig.json: error TS5014: Failed to parse file.",
		},
		{
			name:     "without file",
			diag:     Diagnostic{Code: 5083, Category: CategoryError, Message: "Cannot read file '/p/x.json'."},
			expected: "error TS5083: Cannot read file '/p/x.json'.",
		},
		{
			name:     "warning",
			diag:     Diagnostic{Code: 1, Category: CategoryWarning, Message: "careful"},
			expected: "warning TS1: careful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDiagnostic(tt.diag); got != tt.expected {
				t.Errorf("FormatDiagnostic() = %q, want %q", got, tt.expected)
			}
			if got := tt.diag.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}
