package models

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Owner необязательная ссылка на владельца. Нулевое значение означает ссылку без владельца.
type Owner struct {
	UserID uuid.NullUUID `gorm:"column:owner_id;type:varchar(36);index"`
}

// OwnedBy создает ссылку на владельца.
func OwnedBy(userID uuid.UUID) Owner {
	return Owner{UserID: uuid.NullUUID{UUID: userID, Valid: true}}
}

// Unowned ссылка без владельца.
func Unowned() Owner {
	return Owner{}
}

// Get возвращает идентификатор владельца и признак его наличия.
func (o Owner) Get() (uuid.UUID, bool) {
	return o.UserID.UUID, o.UserID.Valid
}

// IsOwnedBy сообщает, принадлежит ли ссылка пользователю userID.
func (o Owner) IsOwnedBy(userID uuid.UUID) bool {
	id, ok := o.Get()
	return ok && id == userID
}

func (o Owner) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.UserID) //nolint:wrapcheck
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &o.UserID) //nolint:wrapcheck
}
