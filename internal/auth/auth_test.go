package auth_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	auth "github.com/okian/tabula/internal/auth"
	. "github.com/smartystreets/goconvey/convey"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestBcryptVerifier(t *testing.T) {
	Convey("Given a verifier for the fixed admin account", t, func() {
		hash := mustHash(t, "s3cret")
		v, err := auth.NewBcryptVerifier("admin@md.org", hash)
		So(err, ShouldBeNil)

		Convey("Then the right credentials verify", func() {
			So(v.Verify(context.Background(), "admin@md.org", "s3cret"), ShouldBeNil)
		})

		Convey("Then a wrong password is rejected", func() {
			err := v.Verify(context.Background(), "admin@md.org", "nope")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("Then a wrong account is rejected", func() {
			err := v.Verify(context.Background(), "other@md.org", "s3cret")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("Then empty configuration is refused", func() {
			_, err := auth.NewBcryptVerifier("", "")
			So(errors.Is(err, auth.ErrBadCredentialConfig), ShouldBeTrue)
		})
	})
}

func TestDenyVerifier(t *testing.T) {
	Convey("Given the deny verifier", t, func() {
		v := auth.DenyVerifier{}

		Convey("Then every credential is rejected", func() {
			err := v.Verify(context.Background(), "admin@md.org", "s3cret")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given an unauthorized session", t, func() {
		hash := mustHash(t, "s3cret")
		v, err := auth.NewBcryptVerifier("admin@md.org", hash)
		So(err, ShouldBeNil)
		s := auth.NewSession("admin@md.org", v)

		var changes []bool
		s.Observe(func(admin bool) { changes = append(changes, admin) })

		Convey("Then it starts unauthorized", func() {
			So(s.Admin(), ShouldBeFalse)
		})

		Convey("When logging in with the right password", func() {
			So(s.Login(context.Background(), "s3cret"), ShouldBeNil)

			Convey("Then the session is authorized and observers fired", func() {
				So(s.Admin(), ShouldBeTrue)
				So(changes, ShouldResemble, []bool{true})
			})

			Convey("When logging out", func() {
				s.Logout()

				Convey("Then the session is deauthorized and observers fired", func() {
					So(s.Admin(), ShouldBeFalse)
					So(changes, ShouldResemble, []bool{true, false})
				})
			})
		})

		Convey("When logging in with a bad password", func() {
			err := s.Login(context.Background(), "nope")

			Convey("Then the error surfaces and the session stays unauthorized", func() {
				So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
				So(s.Admin(), ShouldBeFalse)
				So(changes, ShouldBeEmpty)
			})
		})

		Convey("When logging out while already unauthorized", func() {
			s.Logout()

			Convey("Then observers do not fire redundantly", func() {
				So(changes, ShouldBeEmpty)
			})
		})

		Convey("When an observer reads the session from its callback", func() {
			// Observers run on a snapshot taken outside the lock, so a
			// callback may call back into the session.
			var seen bool
			s.Observe(func(bool) { seen = s.Admin() })
			So(s.Login(context.Background(), "s3cret"), ShouldBeNil)

			Convey("Then the callback completes without deadlock", func() {
				So(seen, ShouldBeTrue)
			})
		})
	})
}
