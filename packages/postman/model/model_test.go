package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []Item {
	inner := &Request{Name: "get-user", Method: "GET"}
	outer := &Request{Name: "list-users", Method: "GET"}
	folder := &Folder{
		Name:  "users",
		Items: []Item{inner},
	}
	root := []Item{outer, folder}
	return root
}

func TestWalkRequestsPreOrder(t *testing.T) {
	root := sampleTree()
	entries := WalkRequests(root)
	require.Len(t, entries, 2)
	assert.Equal(t, "list-users", entries[0].Request.Name)
	assert.Empty(t, entries[0].Ancestors)
	assert.Equal(t, "get-user", entries[1].Request.Name)
	require.Len(t, entries[1].Ancestors, 1)
	assert.Equal(t, "users", entries[1].Ancestors[0].Name)
}

func TestFindByName(t *testing.T) {
	root := sampleTree()
	req, err := FindByName(root, "get-user")
	require.NoError(t, err)
	assert.Equal(t, "get-user", req.Name)

	_, err = FindByName(root, "missing")
	require.Error(t, err)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAncestorsNested(t *testing.T) {
	leaf := &Request{Name: "leaf"}
	inner := &Folder{Name: "inner", Items: []Item{leaf}}
	outer := &Folder{Name: "outer", Items: []Item{inner}}
	root := []Item{outer}

	chain := Ancestors(root, leaf)
	require.Len(t, chain, 2)
	assert.Equal(t, "outer", chain[0].Name)
	assert.Equal(t, "inner", chain[1].Name)
}

func TestAncestorsUnreachable(t *testing.T) {
	root := sampleTree()
	other := &Request{Name: "not-in-tree"}
	assert.Nil(t, Ancestors(root, other))
}
