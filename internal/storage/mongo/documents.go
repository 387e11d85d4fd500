package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

type userDoc struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email"`
	Role             string    `bson:"role"`
	Name             string    `bson:"name,omitempty"`
	OrganisationName string    `bson:"organisationName,omitempty"`
	HospitalName     string    `bson:"hospitalName,omitempty"`
	Website          string    `bson:"website,omitempty"`
	Address          string    `bson:"address,omitempty"`
	Phone            string    `bson:"phone,omitempty"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

func toUserDoc(u core.User) userDoc {
	return userDoc{
		ID:               u.ID,
		Email:            u.Email,
		Role:             string(u.Role),
		Name:             u.Name,
		OrganisationName: u.OrganisationName,
		HospitalName:     u.HospitalName,
		Website:          u.Website,
		Address:          u.Address,
		Phone:            u.Phone,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (d userDoc) user() core.User {
	return core.User{
		ID:               d.ID,
		Email:            d.Email,
		Role:             core.Role(d.Role),
		Name:             d.Name,
		OrganisationName: d.OrganisationName,
		HospitalName:     d.HospitalName,
		Website:          d.Website,
		Address:          d.Address,
		Phone:            d.Phone,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

// recordDoc omits empty references so they are absent, not null.
type recordDoc struct {
	ID            string    `bson:"_id"`
	InventoryType string    `bson:"inventoryType"`
	BloodGroup    string    `bson:"bloodGroup"`
	Quantity      int64     `bson:"quantity"`
	Email         string    `bson:"email"`
	Organisation  string    `bson:"organisation"`
	Donor         string    `bson:"donar,omitempty"`
	Hospital      string    `bson:"hospital,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func toRecordDoc(r core.InventoryRecord) recordDoc {
	return recordDoc{
		ID:            r.ID,
		InventoryType: string(r.InventoryType),
		BloodGroup:    string(r.BloodGroup),
		Quantity:      r.Quantity,
		Email:         r.Email,
		Organisation:  r.Organisation,
		Donor:         r.Donor,
		Hospital:      r.Hospital,
		CreatedAt:     r.CreatedAt,
	}
}

func (d recordDoc) record() core.InventoryRecord {
	return core.InventoryRecord{
		ID:            d.ID,
		InventoryType: core.Direction(d.InventoryType),
		BloodGroup:    core.BloodGroup(d.BloodGroup),
		Quantity:      d.Quantity,
		Email:         d.Email,
		Organisation:  d.Organisation,
		Donor:         d.Donor,
		Hospital:      d.Hospital,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// filterDoc maps a ledger filter onto document fields.
func filterDoc(f core.RecordFilter) bson.D {
	d := bson.D{}
	add := func(key, value string) {
		if value != "" {
			d = append(d, bson.E{Key: key, Value: value})
		}
	}
	add("inventoryType", string(f.InventoryType))
	add("bloodGroup", string(f.BloodGroup))
	add("organisation", f.Organisation)
	add("donar", f.Donor)
	add("hospital", f.Hospital)
	add("email", f.Email)
	return d
}
