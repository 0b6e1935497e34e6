package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hitcall/hitcall/packages/postman/model"
)

func TestResolveFolderNoauthBlocksCollectionInheritance(t *testing.T) {
	collection := &model.Collection{
		Info: model.Info{Name: "c"},
		Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "secret"}},
	}
	folder := &model.Folder{Name: "f", Auth: &model.Auth{Type: model.AuthNoAuth}}
	req := &model.Request{Name: "r"}

	got := Resolve(req, []*model.Folder{folder}, collection)
	assert.Equal(t, SourceNone, got.Source)
	assert.Nil(t, got.Auth)
}

func TestResolveRequestOverridesAncestors(t *testing.T) {
	collection := &model.Collection{
		Info: model.Info{Name: "c"},
		Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "collection-token"}},
	}
	req := &model.Request{
		Name: "r",
		Auth: &model.Auth{Type: model.AuthBasic, Parameters: map[string]string{"username": "u", "password": "p"}},
	}

	got := Resolve(req, nil, collection)
	assert.Equal(t, SourceRequest, got.Source)
	assert.Equal(t, model.AuthBasic, got.Auth.Type)
}

func TestResolveFallsThroughNilFolderAuthToCollection(t *testing.T) {
	collection := &model.Collection{
		Info: model.Info{Name: "c"},
		Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "collection-token"}},
	}
	folder := &model.Folder{Name: "f"} // no auth set
	req := &model.Request{Name: "r"}

	got := Resolve(req, []*model.Folder{folder}, collection)
	assert.Equal(t, SourceCollection, got.Source)
	assert.Equal(t, model.AuthBearer, got.Auth.Type)
}

func TestResolveNearestFolderWins(t *testing.T) {
	collection := &model.Collection{Info: model.Info{Name: "c"}}
	outer := &model.Folder{Name: "outer", Auth: &model.Auth{Type: model.AuthBearer, Parameters: map[string]string{"token": "outer-token"}}}
	inner := &model.Folder{Name: "inner", Auth: &model.Auth{Type: model.AuthBasic, Parameters: map[string]string{"username": "u"}}}
	req := &model.Request{Name: "r"}

	got := Resolve(req, []*model.Folder{outer, inner}, collection)
	assert.Equal(t, SourceFolder, got.Source)
	assert.Equal(t, model.AuthBasic, got.Auth.Type)
}

func TestResolveNoAuthAnywhereYieldsNone(t *testing.T) {
	collection := &model.Collection{Info: model.Info{Name: "c"}}
	req := &model.Request{Name: "r"}

	got := Resolve(req, nil, collection)
	assert.Equal(t, SourceNone, got.Source)
	assert.Nil(t, got.Auth)
}
