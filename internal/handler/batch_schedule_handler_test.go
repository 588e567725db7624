package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-scheduler/internal/dto"
	"github.com/noah-isme/timetable-scheduler/internal/models"
)

type batchServiceMock struct {
	createResp *dto.BatchJobResponse
	createErr  error
	statusResp *dto.BatchStatusResponse
	statusErr  error
}

func (m *batchServiceMock) CreateBatch(ctx context.Context, req dto.BatchGenerateRequest) (*dto.BatchJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *batchServiceMock) GetStatus(ctx context.Context, id string) (*dto.BatchStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func TestBatchScheduleHandlerCreateBatchAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &batchServiceMock{
		createResp: &dto.BatchJobResponse{ID: "job-1", Status: models.BatchJobQueued},
	}
	handler := NewBatchScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.BatchGenerateRequest{SectionIDs: []int{1, 2}})
	c, w := newGinContext(http.MethodPost, "/sections/batch-generate", payload)

	handler.CreateBatch(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "job-1")
}

func TestBatchScheduleHandlerCreateBatchRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBatchScheduleHandler(&batchServiceMock{})

	c, w := newGinContext(http.MethodPost, "/sections/batch-generate", []byte("{not json"))

	handler.CreateBatch(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchScheduleHandlerBatchStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &batchServiceMock{
		statusResp: &dto.BatchStatusResponse{
			ID: "job-1", Status: models.BatchJobProcessing, Progress: 50, SectionIDs: []int{1, 2},
		},
	}
	handler := NewBatchScheduleHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/sections/batch-generate/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.BatchStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
}
