package ceilo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeaderLine1(t *testing.T) {
	t.Run("cl family offsets", func(t *testing.T) {
		rec, err := readHeaderLine1([]string{"\x01CL020210\x02"}, familyCL)
		require.NoError(t, err)
		require.Len(t, rec, 5)
		assert.Equal(t, []string{"CL"}, rec["model_id"])
		assert.Equal(t, []string{"0"}, rec["unit_id"])
		assert.Equal(t, []string{"202"}, rec["software_version"])
		assert.Equal(t, []string{"1"}, rec["message_number"])
		assert.Equal(t, []string{"0"}, rec["message_subclass"])
	})

	t.Run("ct family offsets shift by one", func(t *testing.T) {
		rec, err := readHeaderLine1([]string{"\x01CT02020\x02"}, familyCT)
		require.NoError(t, err)
		assert.Equal(t, []string{"CT"}, rec["model_id"])
		assert.Equal(t, []string{"0"}, rec["unit_id"])
		assert.Equal(t, []string{"20"}, rec["software_version"])
		assert.Equal(t, []string{"2"}, rec["message_number"])
		assert.Equal(t, []string{"0"}, rec["message_subclass"])
	})

	t.Run("short line is malformed", func(t *testing.T) {
		_, err := readHeaderLine1([]string{"\x01CL02"}, familyCL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFile)
	})
}

func TestReadHeaderLine2(t *testing.T) {
	rec, err := readHeaderLine2([]string{"30 00100 01000 02000 000008"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, rec["detection_status"])
	assert.Equal(t, []string{"0"}, rec["warning"])
	assert.Equal(t, []string{"00100 01000 02000"}, rec["cloud_base_data"])
	assert.Equal(t, []string{"000008"}, rec["warning_flags"])

	_, err = readHeaderLine2([]string{"3"})
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestReadCLHeaderLine3(t *testing.T) {
	t.Run("present only for message number 2", func(t *testing.T) {
		rec, err := readCLHeaderLine3([]string{"  3 080 ///// /////"}, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"  3"}, rec["cloud_detection_status"])
		assert.Equal(t, []string{"080 ///// /////"}, rec["cloud_amount_data"])
	})

	t.Run("absent for other message numbers", func(t *testing.T) {
		rec, err := readCLHeaderLine3([]string{"whatever"}, 1)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestReadCLHeaderLine4(t *testing.T) {
	rec, err := readCLHeaderLine4([]string{"100 10 770 098 +34 099 12 621 L0112HN15 139"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, rec["scale"])
	assert.Equal(t, []string{"10"}, rec["range_resolution"])
	assert.Equal(t, []string{"770"}, rec["number_of_gates"])
	assert.Equal(t, []string{"12"}, rec["tilt_angle"])
	assert.Equal(t, []string{"L0112HN15"}, rec["measurement_parameters"])

	_, err = readCLHeaderLine4([]string{"100 10 770"})
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestReadCTHeaderLine3(t *testing.T) {
	line := "100 0 098 +34 99 0 12 621 L0112HN15 139"

	for _, msgNo := range []int{1, 3, 6} {
		rec, err := readCTHeaderLine3([]string{line}, msgNo)
		require.NoError(t, err)
		assert.Nil(t, rec, "message number %d carries no line 3", msgNo)
	}

	rec, err := readCTHeaderLine3([]string{line}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, rec["scale"])
	assert.Equal(t, []string{"12"}, rec["tilt_angle"])
	assert.Equal(t, []string{"139"}, rec["backscatter_sum"])
}

func TestMessageNumber(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		n, err := messageNumber(headerRecord{"message_number": {"2", "2", "2"}})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("inconsistent is fatal", func(t *testing.T) {
		_, err := messageNumber(headerRecord{"message_number": {"2", "5"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInconsistentMessageNumber)
	})
}

func TestParseFractionHour(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"00:00:00", 0},
		{"12:00:00", 12},
		{"00:30:00", 0.5},
		{"23:59:59", 23 + float64(59*60+59)/3600},
	}
	for _, tt := range tests {
		got, err := parseFractionHour(tt.token)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.token)
	}

	_, err := parseFractionHour("12:00")
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestReadTimes(t *testing.T) {
	times, err := readTimes([]string{"-2024-04-26 00:00:30", "-2024-04-26 06:15:00"})
	require.NoError(t, err)
	assert.Equal(t, []float64{float64(30) / 3600, 6.25}, times)

	_, err = readTimes([]string{"-2024-04-26"})
	assert.ErrorIs(t, err, ErrMalformedFile)
}
