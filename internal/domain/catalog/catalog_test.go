package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/outgoing/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

const minimalDays = `
[[days]]
day = 1
task = "a"
points = 1
[[days]]
day = 2
task = "b"
points = 2
[[days]]
day = 3
task = "c"
points = 3
[[days]]
day = 4
task = "d"
points = 4
[[days]]
day = 5
task = "e"
points = 5
[[days]]
day = 6
task = "f"
points = 6
[[days]]
day = 7
task = "g"
points = 7
`

const minimalActions = `
[[categories]]
name = "Only"
  [[categories.actions]]
  id = "wave"
  name = "Wave at a neighbour"
  points = 2
`

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		c := catalog.Default()

		Convey("Then it holds seven ordered challenge days", func() {
			So(c.Len(), ShouldEqual, catalog.ChallengeLength)
			days := c.Days()
			sum := 0
			for i, d := range days {
				So(d.Day, ShouldEqual, i+1)
				So(d.Points, ShouldBeGreaterThan, 0)
				sum += d.Points
			}
			So(sum, ShouldEqual, 406)
		})

		Convey("And day 1 is the compliment task worth 1 point", func() {
			d, err := c.Day(1)
			So(err, ShouldBeNil)
			So(d.Task, ShouldStartWith, "Give someone a compliment")
			So(d.Points, ShouldEqual, 1)
		})

		Convey("And three categories with three actions each", func() {
			cats := c.Categories()
			So(cats, ShouldHaveLength, 3)
			for _, cat := range cats {
				So(cat.Actions, ShouldHaveLength, 3)
			}
			So(c.Actions(), ShouldHaveLength, 9)
		})

		Convey("And actions resolve by id", func() {
			a, err := c.Action("group-activity")
			So(err, ShouldBeNil)
			So(a.Name, ShouldEqual, "Join a group activity or event")
			So(a.Points, ShouldEqual, 150)
			So(a.Category, ShouldEqual, "Challenge Actions")
		})

		Convey("And unknown actions are rejected", func() {
			_, err := c.Action("juggling")
			So(errors.Is(err, catalog.ErrInvalidAction), ShouldBeTrue)
		})

		Convey("And out-of-range days are rejected", func() {
			for _, n := range []int{0, -1, 8} {
				_, err := c.Day(n)
				So(errors.Is(err, catalog.ErrDayOutOfRange), ShouldBeTrue)
			}
		})

		Convey("And returned slices are copies", func() {
			days := c.Days()
			days[0].Points = 999
			cats := c.Categories()
			cats[0].Actions[0].Points = 999

			d, _ := c.Day(1)
			So(d.Points, ShouldEqual, 1)
			So(c.Categories()[0].Actions[0].Points, ShouldEqual, 1)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given TOML catalog documents", t, func() {
		Convey("When the document is complete", func() {
			c, err := catalog.Parse([]byte(minimalDays + minimalActions))

			Convey("Then it parses", func() {
				So(err, ShouldBeNil)
				So(c.Len(), ShouldEqual, 7)
				So(c.Actions(), ShouldHaveLength, 1)
			})
		})

		cases := map[string]string{
			"too few days":       strings.Replace(minimalDays, "[[days]]\nday = 7\ntask = \"g\"\npoints = 7\n", "", 1) + minimalActions,
			"days out of order":  strings.Replace(minimalDays, "day = 2", "day = 9", 1) + minimalActions,
			"zero day points":    strings.Replace(minimalDays, "points = 3", "points = 0", 1) + minimalActions,
			"blank task":         strings.Replace(minimalDays, `task = "d"`, `task = " "`, 1) + minimalActions,
			"no categories":      minimalDays,
			"negative points":    minimalDays + strings.Replace(minimalActions, "points = 2", "points = -2", 1),
			"missing action id":  minimalDays + strings.Replace(minimalActions, `id = "wave"`, `id = ""`, 1),
			"duplicate id":       minimalDays + minimalActions + strings.Replace(minimalActions, `name = "Only"`, `name = "Other"`, 1),
			"unknown key":        minimalDays + minimalActions + "\nbonus = 3\n",
			"malformed document": "[[days]\n",
		}
		for name, doc := range cases {
			Convey("When the document has "+name, func() {
				_, err := catalog.Parse([]byte(doc))

				Convey("Then it is rejected as invalid", func() {
					So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				})
			})
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		So(os.WriteFile(path, []byte(minimalDays+minimalActions), 0o600), ShouldBeNil)

		Convey("Then Load returns the parsed catalog", func() {
			c, err := catalog.Load(path)
			So(err, ShouldBeNil)
			a, err := c.Action("wave")
			So(err, ShouldBeNil)
			So(a.Category, ShouldEqual, "Only")
		})

		Convey("And a missing file is an error", func() {
			_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.toml"))
			So(err, ShouldNotBeNil)
		})
	})
}
