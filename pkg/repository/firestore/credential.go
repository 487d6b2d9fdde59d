package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/instanotion/pkg/domain/interfaces"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CredentialsCollection is the collection name of Notion OAuth credentials
const CredentialsCollection = "credentials"

type credentialRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.CredentialRepository = &credentialRepository{}

func newCredentialRepository(client *firestore.Client) *credentialRepository {
	return &credentialRepository{
		client: client,
	}
}

// credentialDoc is the Firestore persistence model
type credentialDoc struct {
	BotID         string    `firestore:"bot_id"`
	AccessToken   string    `firestore:"access_token"`
	WorkspaceID   string    `firestore:"workspace_id"`
	WorkspaceName string    `firestore:"workspace_name"`
	WorkspaceIcon string    `firestore:"workspace_icon"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func (d *credentialDoc) toModel() *model.Credential {
	return &model.Credential{
		BotID:         types.BotID(d.BotID),
		AccessToken:   d.AccessToken,
		WorkspaceID:   d.WorkspaceID,
		WorkspaceName: d.WorkspaceName,
		WorkspaceIcon: d.WorkspaceIcon,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *credentialRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + CredentialsCollection)
	}
	return r.client.Collection(CredentialsCollection)
}

// Put upserts the credential inside a transaction so created_at survives re-authorization
func (r *credentialRepository) Put(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}

	updatedAt := cred.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	docRef := r.collection().Doc(cred.BotID.String())
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdAt := cred.CreatedAt
		snap, err := tx.Get(docRef)
		switch {
		case err == nil:
			var prev credentialDoc
			if err := snap.DataTo(&prev); err != nil {
				return goerr.Wrap(err, "failed to unmarshal stored credential")
			}
			if !prev.CreatedAt.IsZero() {
				createdAt = prev.CreatedAt
			}
		case status.Code(err) == codes.NotFound:
			// first authorization of this bot
		default:
			return goerr.Wrap(err, "failed to read credential")
		}
		if createdAt.IsZero() {
			createdAt = updatedAt
		}

		return tx.Set(docRef, &credentialDoc{
			BotID:         cred.BotID.String(),
			AccessToken:   cred.AccessToken,
			WorkspaceID:   cred.WorkspaceID,
			WorkspaceName: cred.WorkspaceName,
			WorkspaceIcon: cred.WorkspaceIcon,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put credential to firestore", goerr.V("bot_id", cred.BotID))
	}

	return nil
}

func (r *credentialRepository) Get(ctx context.Context, botID types.BotID) (*model.Credential, error) {
	if botID == "" {
		return nil, goerr.New("bot ID is required")
	}

	doc, err := r.collection().Doc(botID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrCredentialNotFound, "credential not found", goerr.V("bot_id", botID))
		}
		return nil, goerr.Wrap(err, "failed to get credential from firestore", goerr.V("bot_id", botID))
	}

	var d credentialDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal credential", goerr.V("bot_id", botID))
	}

	return d.toModel(), nil
}

func (r *credentialRepository) List(ctx context.Context) ([]*model.Credential, error) {
	query := r.collection().OrderBy("updated_at", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

// ListByWorkspace requires the (workspace_id ASC, updated_at DESC) composite index created by `migrate`
func (r *credentialRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*model.Credential, error) {
	query := r.collection().
		Where("workspace_id", "==", workspaceID).
		OrderBy("updated_at", firestore.Desc)
	creds, err := r.collect(ctx, query.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list credentials by workspace", goerr.V("workspace_id", workspaceID))
	}
	return creds, nil
}

func (r *credentialRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*model.Credential, error) {
	defer iter.Stop()

	var result []*model.Credential
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate credentials")
		}

		var d credentialDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal credential", goerr.V("doc_id", doc.Ref.ID))
		}
		result = append(result, d.toModel())
	}

	return result, nil
}
