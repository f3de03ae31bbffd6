package cash

import (
	"encoding/binary"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const confPkg = "cash"

// accountStorageOverhead is the number of bytes every account is charged
// for on top of its reserved space.
const accountStorageOverhead = 128

// Configuration holds the rent parameters.
type Configuration struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	ExemptionYears      uint64 `json:"exemption_years"`
}

// DefaultConfiguration is used when genesis does not configure rent.
var DefaultConfiguration = Configuration{
	LamportsPerByteYear: 3480,
	ExemptionYears:      2,
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.LamportsPerByteYear == 0 {
		return errors.Field("LamportsPerByteYear", errors.ErrEmpty, "required")
	}
	if c.ExemptionYears == 0 {
		return errors.Field("ExemptionYears", errors.ErrEmpty, "required")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint64(raw, c.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:], c.ExemptionYears)
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) != 16 {
		return errors.Wrapf(errors.ErrModel, "configuration length %d", len(raw))
	}
	c.LamportsPerByteYear = binary.LittleEndian.Uint64(raw)
	c.ExemptionYears = binary.LittleEndian.Uint64(raw[8:])
	return nil
}

// MinimumBalance returns the amount an account with given reserved space
// must hold to be exempt from rent.
func (c Configuration) MinimumBalance(space uint64) (uint64, error) {
	bytes := accountStorageOverhead + space
	if bytes < space {
		return 0, errors.Wrap(errors.ErrOverflow, "space")
	}
	perYear := bytes * c.LamportsPerByteYear
	if perYear/c.LamportsPerByteYear != bytes {
		return 0, errors.Wrap(errors.ErrOverflow, "rent per year")
	}
	total := perYear * c.ExemptionYears
	if total/c.ExemptionYears != perYear {
		return 0, errors.Wrap(errors.ErrOverflow, "rent")
	}
	return total, nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration, nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
