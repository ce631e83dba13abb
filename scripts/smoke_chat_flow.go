package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var baseURL = "http://localhost:3000/api"

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func mintToken(secret string) string {
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}
	return signed
}

func sendRequest(method, url, token string, body interface{}) (*envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	// LLM calls can take a while on local models
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("status %s: %s", resp.Status, string(raw))
	}
	if !env.Success {
		return &env, fmt.Errorf("status %d: %s", env.Code, env.Message)
	}
	return &env, nil
}

func call(step, method, url, token string, body interface{}) *envelope {
	env, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("[%s] Failed: %v", step, err)
		os.Exit(1)
	}
	color.Green("[%s] %s", step, env.Message)

	var pretty bytes.Buffer
	if json.Indent(&pretty, env.Data, "", "  ") == nil {
		fmt.Println(pretty.String())
	}
	return env
}

func stateOf(env *envelope) string {
	var payload struct {
		State string `json:"state"`
	}
	_ = json.Unmarshal(env.Data, &payload)
	return payload.State
}

func main() {
	_ = godotenv.Load()
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		color.Red("JWT_SECRET is required")
		os.Exit(1)
	}

	token := mintToken(secret)
	projectId := uuid.NewString()
	color.Cyan("🚀 Requirements elicitation smoke test (project %s)\n", projectId)

	color.Yellow("\n1. Describe the project")
	env := call("init", http.MethodPost, "/chat-message/v1", token, map[string]interface{}{
		"project_id": projectId,
		"content":    "A mobile app for a neighbourhood library to lend books and track returns",
		"sender":     "user",
		"language":   "en",
	})

	color.Yellow("\n2. Answer the questionnaire")
	for i := 0; stateOf(env) == "software_questions" && i < 20; i++ {
		env = call(fmt.Sprintf("answer %d", i+1), http.MethodPost, "/chat-message/v1", token, map[string]interface{}{
			"project_id": projectId,
			"content":    "Keep it simple, members and librarians only",
			"sender":     "user",
		})
	}

	color.Yellow("\n3. Current requirements")
	call("list", http.MethodGet, "/requirement/v1/project/"+projectId, token, nil)

	color.Yellow("\n4. Move to stall and chat")
	call("stall", http.MethodPost, "/state-machine/v1/project/"+projectId, token, map[string]interface{}{
		"state": "stall",
	})
	call("chat", http.MethodPost, "/chat-message/v1", token, map[string]interface{}{
		"project_id": projectId,
		"content":    "Which requirement is the riskiest?",
		"sender":     "user",
	})

	color.Yellow("\n5. Add security requirements")
	call("generate", http.MethodPost, "/requirement/v1/generate", token, map[string]interface{}{
		"project_id": projectId,
		"category":   "security",
	})

	color.Yellow("\n6. Final state")
	call("state", http.MethodGet, "/state-machine/v1/project/"+projectId, token, nil)

	color.Cyan("\n✅ Smoke test finished")
}
