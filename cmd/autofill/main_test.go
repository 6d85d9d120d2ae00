package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/server"
	"github.com/jonathan/form-autofill/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	applyPage   = `<html><body><form id="apply"><input name="first_name"><input name="last_name"><input name="email"><input name="phone"></form></body></html>`
	profileJSON = `{"name":"Asha Rao","email":"a@x.com","phone":"9999999999"}`
	resumeJSON  = `{"personalInfo":{"location":"Bengaluru, Karnataka, 560001"},"experience":[{"company":"Acme","position":"Engineer","startDate":"2019-06"}],"skills":["Go","SQL"]}`
)

// setupCLI points the CLI at a fresh file store and returns a temp dir.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AUTOFILL_STORE", "file")
	t.Setenv("AUTOFILL_STORE_PATH", filepath.Join(dir, "store.json"))
	t.Setenv("DEFAULT_COUNTRY", "")
	t.Setenv("HIGHLIGHT_DURATION", "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func storeProfile(t *testing.T) {
	t.Helper()
	_, err := runCLI(t, profileJSON, "store", "set", "userData")
	require.NoError(t, err)
	_, err = runCLI(t, resumeJSON, "store", "set", "resumeData", "-")
	require.NoError(t, err)
}

func TestStoreCommand(t *testing.T) {
	dir := setupCLI(t)

	out, err := runCLI(t, "", "store", "set", "userData", writeFile(t, dir, "user.json", profileJSON))
	require.NoError(t, err)
	assert.Equal(t, "Stored userData\n", out)

	out, err = runCLI(t, "", "store", "get", "userData")
	require.NoError(t, err)
	assert.JSONEq(t, profileJSON, out)
	assert.Contains(t, out, "\n  \"name\"", "records are pretty-printed")
}

func TestStoreCommand_Errors(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"schema violation", `{"name":"Asha"}`, []string{"store", "set", "userData"}, "schema"},
		{"invalid email", `{"name":"Asha","email":"not-an-email"}`, []string{"store", "set", "userData"}, "invalid profile"},
		{"unknown key", `{}`, []string{"store", "set", "settings"}, `unknown storage key "settings"`},
		{"missing record", "", []string{"store", "get", "resumeData"}, `no record stored under "resumeData"`},
		{"missing file", "", []string{"store", "set", "userData", "/nonexistent/user.json"}, "failed to read record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectCommand_JSON(t *testing.T) {
	dir := setupCLI(t)
	page := writeFile(t, dir, "apply.html", applyPage)

	out, err := runCLI(t, "", "detect", "--json", page)
	require.NoError(t, err)

	var resp autofill.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []types.FormSummary{{ID: "apply", Fields: 4}}, resp.Forms)
}

func TestDetectCommand_Report(t *testing.T) {
	setupCLI(t)
	storeProfile(t)

	out, err := runCLI(t, applyPage, "detect")
	require.NoError(t, err)

	assert.Contains(t, out, "DETECTED FORMS")
	assert.Contains(t, out, "#1  apply  (4/4 fillable)")
	assert.Contains(t, out, "firstName = Asha")
	assert.Contains(t, out, "phone = 9999999999")
}

func TestDetectCommand_URL(t *testing.T) {
	setupCLI(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(applyPage))
	}))
	defer upstream.Close()

	out, err := runCLI(t, "", "detect", "--json", upstream.URL+"/jobs/42/apply")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "apply"`)
}

func TestDetectCommand_BrowserNeedsURL(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, applyPage, "detect", "--browser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--browser requires a URL source")
}

func TestFillCommand(t *testing.T) {
	dir := setupCLI(t)
	storeProfile(t)
	page := writeFile(t, dir, "apply.html", applyPage)
	outFile := filepath.Join(dir, "filled.html")

	out, err := runCLI(t, "", "fill", page, "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Status:   OK")
	assert.Contains(t, out, "Filled:   4 field(s)")
	assert.Contains(t, out, "Output: "+outFile)

	filled, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(filled), `value="Asha"`)
	assert.Contains(t, string(filled), `value="Rao"`)
	assert.Contains(t, string(filled), `value="a@x.com"`)
	assert.Contains(t, string(filled), "background-color: #e8f5e8", "saved pages keep the highlight")
}

func TestFillCommand_JSON(t *testing.T) {
	tests := []struct {
		name    string
		profile bool
		page    string
		want    types.FillResult
	}{
		{
			name:    "filled",
			profile: true,
			page:    applyPage,
			want:    types.FillResult{Success: true, FilledCount: 4, Message: "Successfully filled 4 field(s)"},
		},
		{
			name: "no profile",
			page: applyPage,
			want: types.FillResult{Message: autofill.MsgNoData},
		},
		{
			name:    "no forms",
			profile: true,
			page:    `<p>We are hiring!</p>`,
			want:    types.FillResult{Message: autofill.MsgNoForms},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			if tt.profile {
				storeProfile(t)
			}

			out, err := runCLI(t, tt.page, "fill", "--json")
			require.NoError(t, err)

			var got types.FillResult
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFillCommand_ConfigFile(t *testing.T) {
	dir := setupCLI(t)
	storeProfile(t)
	cfgPath := writeFile(t, dir, "autofill.yaml", "store: file\ndefault_country: Canada\n")

	outFile := filepath.Join(dir, "filled.html")
	_, err := runCLI(t, `<form id="apply"><input name="email"><input name="country"></form>`,
		"--config", cfgPath, "fill", "--out", outFile)
	require.NoError(t, err)

	filled, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(filled), `name="country" value="Canada"`)
}

func TestTokenCommand(t *testing.T) {
	setupCLI(t)

	t.Setenv("JWT_SECRET", "")
	_, err := runCLI(t, "", "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "cli-test-secret-key-for-signing-tokens")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")
	userID := "6f1c2a4e-8d3b-4e5f-9a7c-1b2d3e4f5a6b"
	out, err := runCLI(t, "", "token", "--user-id", userID)
	require.NoError(t, err)

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID.String())

	_, err = runCLI(t, "", "token", "--user-id", "nope")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in: false")
	assert.Contains(t, out, "Profile:  not loaded")

	storeProfile(t)
	_, err = runCLI(t, `{"id":"u-1"}`, "store", "set", "user")
	require.NoError(t, err)

	out, err = runCLI(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in: true")
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "Engineer at Acme")
}

func TestInvalidConfig(t *testing.T) {
	setupCLI(t)
	t.Setenv("AUTOFILL_STORE", "redis")

	_, err := runCLI(t, "", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
