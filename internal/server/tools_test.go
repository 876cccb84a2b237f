package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"wrap_presets",
		"wrap_compute_sector",
		"wrap_generate",
		"image_load",
		"image_search",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be declared.
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string][]string{
		"wrap_compute_sector": {"top_diameter", "bottom_diameter", "height"},
		"wrap_generate":       {"source", "wrap_type"},
		"image_load":          {"path"},
		"image_search":        {"query"},
	}

	for _, tool := range GetToolDefinitions() {
		expected, ok := want[tool.Name]
		if !ok {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(required) != len(expected) {
				t.Fatalf("required: got %v, want %v", required, expected)
			}
			for i := range expected {
				if required[i] != expected[i] {
					t.Errorf("required[%d]: got %s, want %s", i, required[i], expected[i])
				}
			}
		})
	}
}

func TestToolDefinitions_WrapTypeEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "wrap_generate" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		wrapType := props["wrap_type"].(map[string]interface{})
		enum, ok := wrapType["enum"].([]string)
		if !ok {
			t.Fatal("wrap_type enum should be a string slice")
		}
		if len(enum) != 3 || enum[0] != "straight" || enum[1] != "seamless" || enum[2] != "tapered" {
			t.Errorf("wrap_type enum: got %v", enum)
		}
		if _, ok := props["top_diameter"]; !ok {
			t.Error("wrap_generate should accept cone dimensions")
		}
		return
	}
	t.Fatal("wrap_generate tool not found")
}
