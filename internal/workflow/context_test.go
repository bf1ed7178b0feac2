package workflow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-api-agent/internal/sample"
)

type mapStore map[string]interface{}

func (s mapStore) Get(key string) (interface{}, bool) {
	value, ok := s[key]
	return value, ok
}

func (s mapStore) Set(key string, value interface{}) { s[key] = value }

func (s mapStore) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func TestResolveArgsFromContextMerge(t *testing.T) {
	store := mapStore{
		"created_post": map[string]interface{}{
			"id":    "post-1",
			"title": "Stored Title",
			"body":  "stored body",
		},
	}

	args := map[string]interface{}{
		KeyFromContext: "created_post",
		"title":        "Explicit Title",
	}
	resolved := ResolveArgs(args, store)

	assert.Equal(t, "Explicit Title", resolved["title"], "explicit arguments win over stored fields")
	assert.Equal(t, "stored body", resolved["body"])
	assert.Equal(t, "post-1", resolved["id"], "stored id is adopted when the call has none")
	assert.NotContains(t, resolved, KeyFromContext)
}

func TestResolveArgsExplicitIDWins(t *testing.T) {
	store := mapStore{
		"created_post": map[string]interface{}{"id": "post-1"},
	}

	resolved := ResolveArgs(map[string]interface{}{
		KeyFromContext: "created_post",
		"id":           "other-id",
	}, store)
	assert.Equal(t, "other-id", resolved["id"])
}

func TestResolveArgsMissingContextKey(t *testing.T) {
	resolved := ResolveArgs(map[string]interface{}{
		KeyFromContext: "never_stored",
		"title":        "Test Title",
	}, mapStore{})

	assert.Equal(t, "Test Title", resolved["title"])
	assert.NotContains(t, resolved, KeyFromContext, "the control key is consumed either way")
}

func TestResolveArgsSubstitutesDynamicMarkers(t *testing.T) {
	store := mapStore{
		"existing_users": []interface{}{
			map[string]interface{}{"id": "user-42", "name": "First User"},
			map[string]interface{}{"id": "user-43"},
		},
	}

	args := map[string]interface{}{
		"authorId": "DYNAMIC_USERS_ID",
		KeyData: map[string]interface{}{
			"authorId": "DYNAMIC_USERS_ID",
			"title":    "Test Title",
		},
		KeyDynamicForeignKeys: []sample.Dependency{
			{SourceProperty: "authorId", TargetEndpoint: "users", Marker: "DYNAMIC_USERS_ID"},
		},
	}
	resolved := ResolveArgs(args, store)

	assert.Equal(t, "user-42", resolved["authorId"], "first cached id is used")
	data := resolved[KeyData].(map[string]interface{})
	assert.Equal(t, "user-42", data["authorId"], "markers are replaced everywhere in the tree")
	assert.NotContains(t, resolved, KeyDynamicForeignKeys)
}

func TestResolveArgsUnwrapsListEnvelopes(t *testing.T) {
	for _, envelope := range []string{"data", "items", "results"} {
		store := mapStore{
			"existing_users": map[string]interface{}{
				envelope: []interface{}{map[string]interface{}{"id": "user-1"}},
			},
		}
		resolved := ResolveArgs(map[string]interface{}{
			"authorId": "DYNAMIC_USERS_ID",
			KeyDynamicForeignKeys: []sample.Dependency{
				{SourceProperty: "authorId", TargetEndpoint: "users", Marker: "DYNAMIC_USERS_ID"},
			},
		}, store)
		assert.Equal(t, "user-1", resolved["authorId"], "envelope %q", envelope)
	}
}

func TestResolveArgsLeavesMarkerWhenNoTargetCached(t *testing.T) {
	resolved := ResolveArgs(map[string]interface{}{
		"authorId": "DYNAMIC_USERS_ID",
		KeyDynamicForeignKeys: []sample.Dependency{
			{SourceProperty: "authorId", TargetEndpoint: "users", Marker: "DYNAMIC_USERS_ID"},
		},
	}, mapStore{})

	assert.Equal(t, "DYNAMIC_USERS_ID", resolved["authorId"])
}

func TestResolveArgsHandlesGenericDependencyMaps(t *testing.T) {
	// After a JSON round trip the typed dependencies arrive as generic maps
	raw := `{"authorId":"DYNAMIC_USERS_ID","_dynamicForeignKeys":[{"sourceProperty":"authorId","targetEndpoint":"users","marker":"DYNAMIC_USERS_ID"}]}`
	var args map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &args))

	store := mapStore{
		"existing_users": []interface{}{map[string]interface{}{"id": "user-7"}},
	}
	resolved := ResolveArgs(args, store)
	assert.Equal(t, "user-7", resolved["authorId"])
}

func TestResolveArgsLegacyUserMarker(t *testing.T) {
	store := mapStore{
		"existing_users": []interface{}{map[string]interface{}{"id": "user-9"}},
	}
	resolved := ResolveArgs(map[string]interface{}{
		"userId": "{{EXISTING_USER_ID}}",
	}, store)
	assert.Equal(t, "user-9", resolved["userId"])
}

func TestResolveArgsDoesNotMutateInput(t *testing.T) {
	store := mapStore{
		"existing_users": []interface{}{map[string]interface{}{"id": "user-1"}},
	}
	args := map[string]interface{}{
		"authorId": "DYNAMIC_USERS_ID",
		KeyData:    map[string]interface{}{"authorId": "DYNAMIC_USERS_ID"},
		KeyDynamicForeignKeys: []sample.Dependency{
			{SourceProperty: "authorId", TargetEndpoint: "users", Marker: "DYNAMIC_USERS_ID"},
		},
	}

	ResolveArgs(args, store)

	assert.Equal(t, "DYNAMIC_USERS_ID", args["authorId"], "workflow definitions stay immutable")
	data := args[KeyData].(map[string]interface{})
	assert.Equal(t, "DYNAMIC_USERS_ID", data["authorId"])
	assert.Contains(t, args, KeyDynamicForeignKeys)
}

func TestResolveArgsNumericIDs(t *testing.T) {
	store := mapStore{
		"existing_users": []interface{}{map[string]interface{}{"id": float64(17)}},
	}
	resolved := ResolveArgs(map[string]interface{}{
		"note": "owned by DYNAMIC_USERS_ID",
		KeyDynamicForeignKeys: []sample.Dependency{
			{SourceProperty: "note", TargetEndpoint: "users", Marker: "DYNAMIC_USERS_ID"},
		},
	}, store)

	note := resolved["note"].(string)
	assert.True(t, strings.HasSuffix(note, "17"), "numeric ids are rendered as text: %q", note)
}
