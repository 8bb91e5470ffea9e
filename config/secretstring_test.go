package config

import (
	"encoding/json"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretStringMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  string
	}{
		{name: "empty token", input: "", want: "null"},
		{name: "api token", input: "pbe-tok-5f2a9c", want: `"` + SecretStringValue + `"`},
		{name: "single char", input: "x", want: `"` + SecretStringValue + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSecretStringMarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  any
	}{
		{name: "empty token", input: "", want: nil},
		{name: "api token", input: "pbe-tok-5f2a9c", want: SecretStringValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MarshalYAML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecretStringNoLeakThroughConfig(t *testing.T) {
	// mirrors the editor block of Config
	type editorSection struct {
		ProjectRef string       `json:"project_ref" yaml:"project_ref"`
		APIToken   SecretString `json:"api_token" yaml:"api_token"`
	}

	in := editorSection{ProjectRef: "website-alpha", APIToken: "pbe-tok-9a81c33d"}

	jsonBytes, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(jsonBytes), string(in.APIToken)) {
		t.Errorf("token leaked into JSON: %s", jsonBytes)
	}
	if !strings.Contains(string(jsonBytes), `"website-alpha"`) {
		t.Errorf("non-secret field mangled: %s", jsonBytes)
	}

	yamlBytes, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	want := "project_ref: website-alpha\napi_token: <secret>\n"
	if string(yamlBytes) != want {
		t.Errorf("yaml.Marshal() = %q, want %q", yamlBytes, want)
	}

	// empty token serializes as null so Dump output stays diffable
	in.APIToken = ""
	yamlBytes, err = yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if !strings.Contains(string(yamlBytes), "api_token: null") {
		t.Errorf("empty token must marshal as null: %s", yamlBytes)
	}
}

func TestSecretStringKeepsValueInMemory(t *testing.T) {
	secret := SecretString("pbe-tok-5f2a9c")
	if string(secret) != "pbe-tok-5f2a9c" {
		t.Errorf("string(secret) = %s", string(secret))
	}
	if SecretStringValue != "<secret>" {
		t.Errorf("SecretStringValue = %s", SecretStringValue)
	}
}
