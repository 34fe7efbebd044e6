package java

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "oracle jdk",
			output: "java version \"21.0.3\" 2024-04-16 LTS\nJava(TM) SE Runtime Environment (build 21.0.3+7-LTS-152)",
			want:   "21.0.3",
		},
		{
			name:   "openjdk",
			output: "openjdk version \"17.0.11\" 2024-04-16\nOpenJDK Runtime Environment Temurin-17.0.11+9",
			want:   "17.0.11",
		},
		{
			name:   "legacy format",
			output: "java version \"1.8.0_451\"\nJava(TM) SE Runtime Environment (build 1.8.0_451-b10)",
			want:   "1.8.0_451",
		},
		{
			name:   "garbage",
			output: "command not found",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVersionOutput(tt.output))
		})
	}
}

func TestParseVersionFromDirName(t *testing.T) {
	tests := []struct {
		dirName string
		want    string
	}{
		{"jdk-21.0.3", "21.0.3"},
		{"jdk-21.0.3.jdk", "21.0.3"},
		{"jdk17.0.11", "17.0.11"},
		{"java-21-openjdk", "21"},
		{"JDK-21", "21"},
		{"zulu-17", "zulu-17"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseVersionFromDirName(tt.dirName), "dir %q", tt.dirName)
	}
}

func TestIsValidJavaPath(t *testing.T) {
	detector := NewDetector()

	jdkHome := t.TempDir()
	assert.False(t, detector.IsValidJavaPath(jdkHome), "no launcher yet")

	binDir := filepath.Join(jdkHome, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, javaExecutable()), []byte("#!/bin/sh"), 0755))

	assert.True(t, detector.IsValidJavaPath(jdkHome))
}

func TestGetVersionFallsBackToDirName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake launcher is not executable on windows")
	}

	detector := NewDetector()

	// A launcher that fails to run forces the directory-name fallback
	jdkHome := filepath.Join(t.TempDir(), "jdk-21.0.3")
	require.NoError(t, os.MkdirAll(filepath.Join(jdkHome, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(jdkHome, "bin", "java"), []byte("not a binary"), 0644))

	assert.Equal(t, "21.0.3", detector.GetVersion(jdkHome))
}
