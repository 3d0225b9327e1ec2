package invitation

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document is the persisted representation of an invitation.
type Document = bson.M

// Document field names.
const (
	fieldID              = "_id"
	fieldFirstName       = "firstName"
	fieldLastName        = "lastName"
	fieldEmail           = "email"
	fieldComment         = "comment"
	fieldInternalComment = "internalComment"
	fieldContact         = "contact"
	fieldSalutation      = "salutation"
	fieldInvitationState = "invitationState"
	fieldCreatedAt       = "createdAt"
	fieldCreatedBy       = "createdBy"
	fieldModifiedAt      = "modifiedAt"
	fieldModifiedBy      = "modifiedBy"
)

// NewID returns a fresh identifier in its entity (hex string) form.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// objectID converts an entity identifier into the store native one.
func objectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, false
	}
	return oid, true
}

// ToDocument maps an invitation to its document form. The identifier is
// only written when includeID is set; a hex id becomes a bson.ObjectID, any
// other non-empty id is stored as is.
func ToDocument(inv Invitation, includeID bool) Document {
	doc := Document{
		fieldFirstName:       inv.FirstName,
		fieldLastName:        inv.LastName,
		fieldEmail:           inv.Email,
		fieldComment:         inv.Comment,
		fieldInternalComment: inv.InternalComment,
		fieldContact:         inv.Contact,
		fieldSalutation:      string(inv.Salutation),
		fieldInvitationState: string(inv.InvitationState),
		fieldCreatedAt:       inv.CreatedAt,
		fieldCreatedBy:       inv.CreatedBy,
		fieldModifiedAt:      inv.ModifiedAt,
		fieldModifiedBy:      inv.ModifiedBy,
	}
	if includeID && inv.ID != "" {
		if oid, ok := objectID(inv.ID); ok {
			doc[fieldID] = oid
		} else {
			doc[fieldID] = inv.ID
		}
	}
	return doc
}

// FromDocument maps a document back to an invitation. A nil document means
// "not found" and yields ok == false. Missing or mistyped fields decode to
// their zero value.
func FromDocument(doc Document) (Invitation, bool) {
	if doc == nil {
		return Invitation{}, false
	}
	return Invitation{
		ID:              idString(doc[fieldID]),
		FirstName:       str(doc[fieldFirstName]),
		LastName:        str(doc[fieldLastName]),
		Email:           str(doc[fieldEmail]),
		Comment:         str(doc[fieldComment]),
		InternalComment: str(doc[fieldInternalComment]),
		Contact:         str(doc[fieldContact]),
		Salutation:      Salutation(str(doc[fieldSalutation])),
		InvitationState: State(str(doc[fieldInvitationState])),
		CreatedAt:       timestamp(doc[fieldCreatedAt]),
		CreatedBy:       str(doc[fieldCreatedBy]),
		ModifiedAt:      timestamp(doc[fieldModifiedAt]),
		ModifiedBy:      str(doc[fieldModifiedBy]),
	}, true
}

func idString(v any) string {
	switch id := v.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// timestamp accepts time.Time (documents built in memory) and bson.DateTime
// (documents decoded from MongoDB into bson.M).
func timestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case bson.DateTime:
		return t.Time().UTC()
	}
	return time.Time{}
}
