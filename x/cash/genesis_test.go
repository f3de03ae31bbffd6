package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	Convey("Given a genesis file", t, func() {
		db := store.MemStore()
		ctrl := NewController()

		Convey("Accounts and rent configuration are loaded", func() {
			genesis := `{
				"conf": {"cash": {"lamports_per_byte_year": 10, "exemption_years": 1}},
				"cash": [
					{"address": "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", "lamports": 5000}
				]
			}`
			var opts custody.Options
			So(json.Unmarshal([]byte(genesis), &opts), ShouldBeNil)
			So(Initializer{}.FromGenesis(opts, db), ShouldBeNil)

			addr := custody.MustParseAddress("4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
			balance, err := ctrl.Balance(db, addr)
			So(err, ShouldBeNil)
			So(balance, ShouldEqual, 5000)

			min, err := ctrl.MinimumBalance(db, 0)
			So(err, ShouldBeNil)
			So(min, ShouldEqual, 1280)
		})

		Convey("Missing configuration keeps the default rent", func() {
			So(Initializer{}.FromGenesis(custody.Options{}, db), ShouldBeNil)
			min, err := ctrl.MinimumBalance(db, 0)
			So(err, ShouldBeNil)
			So(min, ShouldEqual, 890880)
		})

		Convey("Duplicated accounts are rejected", func() {
			genesis := `{"cash": [
				{"address": "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", "lamports": 1},
				{"address": "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", "lamports": 2}
			]}`
			var opts custody.Options
			So(json.Unmarshal([]byte(genesis), &opts), ShouldBeNil)
			err := Initializer{}.FromGenesis(opts, db)
			So(errors.ErrDuplicate.Is(err), ShouldBeTrue)
		})

		Convey("Invalid configuration is rejected", func() {
			genesis := `{"conf": {"cash": {"lamports_per_byte_year": 0, "exemption_years": 1}}}`
			var opts custody.Options
			So(json.Unmarshal([]byte(genesis), &opts), ShouldBeNil)
			err := Initializer{}.FromGenesis(opts, db)
			So(errors.ErrEmpty.Is(err), ShouldBeTrue)
		})
	})
}
