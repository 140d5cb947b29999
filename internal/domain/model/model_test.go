package model_test

import (
	"testing"

	model "github.com/okian/tabula/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestBundleClone(t *testing.T) {
	convey.Convey("Given a bundle with all four collections", t, func() {
		b := model.Bundle{
			Teens:          []model.Teen{{ID: "t1", Name: "Ana"}},
			Categories:     []model.Category{{Key: "biblia", Label: "Bíblia", DefaultPoints: 2}},
			CategoryPoints: map[string]int{"biblia": 2},
			Scores:         model.Scores{"t1": {"biblia": 4}},
		}

		convey.Convey("When cloning and mutating the clone", func() {
			c := b.Clone()
			c.Teens[0].Name = "Alterada"
			c.Categories[0].Label = "Outra"
			c.CategoryPoints["biblia"] = 99
			c.Scores["t1"]["biblia"] = 99

			convey.Convey("Then the original is untouched", func() {
				convey.So(b.Teens[0].Name, convey.ShouldEqual, "Ana")
				convey.So(b.Categories[0].Label, convey.ShouldEqual, "Bíblia")
				convey.So(b.CategoryPoints["biblia"], convey.ShouldEqual, 2)
				convey.So(b.Scores["t1"]["biblia"], convey.ShouldEqual, 4)
			})
		})
	})
}

func TestCloneKeepsPresence(t *testing.T) {
	convey.Convey("Given a bundle whose collections were emptied", t, func() {
		b := model.Bundle{
			Teens:          []model.Teen{},
			Categories:     []model.Category{},
			CategoryPoints: map[string]int{},
			Scores:         model.Scores{},
		}

		convey.Convey("Then the clone keeps them empty, not nil", func() {
			// nil marshals as JSON null and reads back as "field not
			// reported"; an emptied roster must stay an empty array so
			// the emptiness reaches other clients.
			c := b.Clone()
			convey.So(c.Teens, convey.ShouldNotBeNil)
			convey.So(len(c.Teens), convey.ShouldEqual, 0)
			convey.So(c.Categories, convey.ShouldNotBeNil)
			convey.So(len(c.Categories), convey.ShouldEqual, 0)
			convey.So(c.CategoryPoints, convey.ShouldNotBeNil)
			convey.So(c.Scores, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a zero bundle", t, func() {
		var b model.Bundle

		convey.Convey("Then the clone keeps unreported fields nil", func() {
			c := b.Clone()
			convey.So(c.Teens, convey.ShouldBeNil)
			convey.So(c.Categories, convey.ShouldBeNil)
			convey.So(c.CategoryPoints, convey.ShouldBeNil)
			convey.So(c.Scores, convey.ShouldBeNil)
		})
	})
}

func TestDefaults(t *testing.T) {
	convey.Convey("Given the factory bundle", t, func() {
		b := model.DefaultBundle()

		convey.Convey("Then it carries the stock categories with matching points", func() {
			convey.So(len(b.Categories), convey.ShouldEqual, 6)
			for _, c := range b.Categories {
				convey.So(b.CategoryPoints[c.Key], convey.ShouldEqual, c.DefaultPoints)
			}
		})

		convey.Convey("Then the roster is non-empty and scores start empty", func() {
			convey.So(len(b.Teens), convey.ShouldBeGreaterThan, 0)
			convey.So(len(b.Scores), convey.ShouldEqual, 0)
		})
	})
}
