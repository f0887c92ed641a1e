package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenvFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("ITINERARYPLANNER_TEST_KEY")
	assert.Equal(t, "fallback", getenv("ITINERARYPLANNER_TEST_KEY", "fallback"))
}

func TestGetenvReturnsSetValue(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_KEY", "custom")
	assert.Equal(t, "custom", getenv("ITINERARYPLANNER_TEST_KEY", "fallback"))
}

func TestGetenvBoolParsesTrueAndFalse(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_BOOL", "false")
	assert.False(t, getenvBool("ITINERARYPLANNER_TEST_BOOL", true))

	t.Setenv("ITINERARYPLANNER_TEST_BOOL", "true")
	assert.True(t, getenvBool("ITINERARYPLANNER_TEST_BOOL", false))
}

func TestGetenvBoolFallsBackOnMalformedValue(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_BOOL", "not-a-bool")
	assert.True(t, getenvBool("ITINERARYPLANNER_TEST_BOOL", true))
}

func TestGetenvIntParsesValue(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_INT", "42")
	assert.Equal(t, 42, getenvInt("ITINERARYPLANNER_TEST_INT", 0))
}

func TestGetenvFloatListParsesCommaSeparatedValues(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_RADII", "1000, 50000 ,100000")
	got := getenvFloatList("ITINERARYPLANNER_TEST_RADII", nil)
	assert.Equal(t, []float64{1000, 50000, 100000}, got)
}

func TestGetenvFloatListFallsBackOnMalformedValue(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_RADII", "1000,not-a-number")
	fallback := []float64{1, 2, 3}
	assert.Equal(t, fallback, getenvFloatList("ITINERARYPLANNER_TEST_RADII", fallback))
}

func TestGetenvListTrimsWhitespace(t *testing.T) {
	t.Setenv("ITINERARYPLANNER_TEST_LIST", "a, b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, getenvList("ITINERARYPLANNER_TEST_LIST", nil))
}

func TestResolveDatabaseURLUsesTestDBURLInTestEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://test")
	assert.Equal(t, "postgres://test", resolveDatabaseURL("test"))
}
