package service

import (
	"strings"
	"testing"

	"ilt_reports_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "user_id,name,total\nalice@example.com,Alice,10\nbob@example.com,Bob,7\n"

	columns, rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"user_id", "name", "total"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice@example.com", rows[0]["user_id"])
	assert.Equal(t, "7", rows[1]["total"])
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, util.ErrEmptyDataset)
}

func TestParseCSVRaggedRows(t *testing.T) {
	// 行长不齐：多余值忽略，缺少的列补空串
	input := "user_id,total\nalice,10,extra\nbob\n"

	columns, rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, columns, 2)
	require.Len(t, rows, 2)

	assert.Equal(t, "10", rows[0]["total"])
	assert.Equal(t, "bob", rows[1]["user_id"])
	assert.Equal(t, "", rows[1]["total"])
}

func TestParseCSVStripsBOM(t *testing.T) {
	input := "﻿user_id,total\nalice,5\n"

	columns, rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "user_id", columns[0])
	assert.Equal(t, "alice", rows[0]["user_id"])
}
