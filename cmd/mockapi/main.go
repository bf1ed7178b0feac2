// Command mockapi runs a small in-memory CRUD backend for trying the agent
// end to end. It serves two linked resources (users and posts, where a post
// references its author by id) and publishes its own OpenAPI document at
// /swagger.json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type store struct {
	mu        sync.RWMutex
	resources map[string]map[string]map[string]interface{}
}

func newStore(resources ...string) *store {
	s := &store{resources: make(map[string]map[string]map[string]interface{})}
	for _, r := range resources {
		s.resources[r] = make(map[string]map[string]interface{})
	}
	return s
}

func (s *store) list(resource string) ([]map[string]interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.resources[resource]
	if !ok {
		return nil, false
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out, true
}

func (s *store) get(resource, id string) (map[string]interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.resources[resource][id]
	return item, ok
}

func (s *store) create(resource string, body map[string]interface{}) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.resources[resource]
	if !ok {
		return nil, false
	}
	id := uuid.New().String()
	body["id"] = id
	body["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	items[id] = body
	return body, true
}

func (s *store) update(resource, id string, body map[string]interface{}) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.resources[resource][id]
	if !ok {
		return nil, false
	}
	for k, v := range body {
		if k == "id" || k == "createdAt" {
			continue
		}
		item[k] = v
	}
	item["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return item, true
}

func (s *store) delete(resource, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[resource][id]; !ok {
		return false
	}
	delete(s.resources[resource], id)
	return true
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	db := newStore("users", "posts")
	seed(db)

	mux := http.NewServeMux()
	mux.HandleFunc("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, openAPIDocument())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handleResource(db, logger, w, r)
	})

	logger.Info("mock API listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func seed(db *store) {
	user, _ := db.create("users", map[string]interface{}{
		"name":  "Seed User",
		"email": "seed.user@example.com",
	})
	db.create("posts", map[string]interface{}{
		"title":    "Seed Post",
		"body":     "An initial post so list endpoints are never empty.",
		"authorId": user["id"],
	})
}

func handleResource(db *store, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	resource := parts[0]
	if resource == "" {
		writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	var id string
	if len(parts) > 1 {
		id = parts[1]
	}
	logger.Info("request", "method", r.Method, "path", r.URL.Path)

	switch {
	case id == "" && r.Method == http.MethodGet:
		items, ok := db.list(resource)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown resource: "+resource)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case id == "" && r.Method == http.MethodPost:
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		item, ok := db.create(resource, body)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown resource: "+resource)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	case id != "" && r.Method == http.MethodGet:
		item, ok := db.get(resource, id)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, item)
	case id != "" && (r.Method == http.MethodPut || r.Method == http.MethodPatch):
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		item, ok := db.update(resource, id, body)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, item)
	case id != "" && r.Method == http.MethodDelete:
		if !db.delete(resource, id) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func readBody(r *http.Request) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %v", err)
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// openAPIDocument describes the mock backend. Resources live at the path
// root so the derived endpoint names are plain "users" and "posts", and the
// post schema references its author through a uuid-formatted authorId so
// dependency detection has something real to find.
func openAPIDocument() map[string]interface{} {
	userSchema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"name", "email"},
		"properties": map[string]interface{}{
			"id":        map[string]interface{}{"type": "string", "format": "uuid", "readOnly": true},
			"name":      map[string]interface{}{"type": "string"},
			"email":     map[string]interface{}{"type": "string", "format": "email"},
			"createdAt": map[string]interface{}{"type": "string", "format": "date-time", "readOnly": true},
		},
	}
	postSchema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"title", "authorId"},
		"properties": map[string]interface{}{
			"id":        map[string]interface{}{"type": "string", "format": "uuid", "readOnly": true},
			"title":     map[string]interface{}{"type": "string"},
			"body":      map[string]interface{}{"type": "string"},
			"authorId":  map[string]interface{}{"type": "string", "format": "uuid"},
			"createdAt": map[string]interface{}{"type": "string", "format": "date-time", "readOnly": true},
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":   "Mock CRUD API",
			"version": "1.0.0",
		},
		"paths": map[string]interface{}{
			"/users":          collectionPathItem("users", "#/components/schemas/User"),
			"/users/{userId}": itemPathItem("user", "userId", "#/components/schemas/User"),
			"/posts":          collectionPathItem("posts", "#/components/schemas/Post"),
			"/posts/{postId}": itemPathItem("post", "postId", "#/components/schemas/Post"),
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"User": userSchema,
				"Post": postSchema,
			},
		},
	}
}

func collectionPathItem(plural, ref string) map[string]interface{} {
	return map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "List " + plural,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "OK"},
			},
		},
		"post": map[string]interface{}{
			"summary": "Create one of " + plural,
			"requestBody": map[string]interface{}{
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{"$ref": ref},
					},
				},
			},
			"responses": map[string]interface{}{
				"201": map[string]interface{}{"description": "Created"},
			},
		},
	}
}

func itemPathItem(singular, param, ref string) map[string]interface{} {
	idParam := []interface{}{
		map[string]interface{}{
			"name":     param,
			"in":       "path",
			"required": true,
			"schema":   map[string]interface{}{"type": "string", "format": "uuid"},
		},
	}
	return map[string]interface{}{
		"get": map[string]interface{}{
			"summary":    "Get a " + singular + " by id",
			"parameters": idParam,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "OK"},
			},
		},
		"put": map[string]interface{}{
			"summary":    "Update a " + singular,
			"parameters": idParam,
			"requestBody": map[string]interface{}{
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{"$ref": ref},
					},
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "OK"},
			},
		},
		"delete": map[string]interface{}{
			"summary":    "Delete a " + singular,
			"parameters": idParam,
			"responses": map[string]interface{}{
				"204": map[string]interface{}{"description": "No Content"},
			},
		},
	}
}
