package handlers

import (
	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/service"
)

func operatorResponse(op *domain.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:        op.ID,
		Name:      op.Name,
		IsActive:  op.Active,
		Capacity:  op.Capacity,
		CreatedAt: op.CreatedAt,
	}
}

func operatorWithLoadResponse(op *service.OperatorWithLoad) dto.OperatorResponse {
	resp := operatorResponse(&op.Operator)
	load := op.CurrentLoad
	resp.CurrentLoad = &load
	return resp
}

func operatorDetailResponse(detail *service.OperatorDetail) dto.OperatorDetailResponse {
	sources := make([]dto.OperatorSourceResponse, 0, len(detail.Sources))
	for _, s := range detail.Sources {
		sources = append(sources, dto.OperatorSourceResponse{
			SourceID:   s.SourceID,
			SourceCode: s.SourceCode,
			SourceName: s.SourceName,
			Weight:     s.Weight,
		})
	}
	return dto.OperatorDetailResponse{
		OperatorResponse: operatorWithLoadResponse(&detail.OperatorWithLoad),
		Sources:          sources,
	}
}

func sourceResponse(src *domain.Source) dto.SourceResponse {
	return dto.SourceResponse{
		ID:          src.ID,
		Name:        src.Name,
		Code:        src.Code,
		Description: src.Description,
		IsActive:    src.Active,
		CreatedAt:   src.CreatedAt,
	}
}

func sourceDetailResponse(detail *service.SourceDetail) dto.SourceDetailResponse {
	operators := make([]dto.SourceOperatorResponse, 0, len(detail.Operators))
	for _, op := range detail.Operators {
		operators = append(operators, dto.SourceOperatorResponse{
			OperatorID:   op.OperatorID,
			OperatorName: op.OperatorName,
			Weight:       op.Weight,
			IsActive:     op.Active,
			CurrentLoad:  op.CurrentLoad,
			Capacity:     op.Capacity,
		})
	}
	return dto.SourceDetailResponse{SourceResponse: sourceResponse(&detail.Source), Operators: operators}
}

func contactResponse(view *domain.ContactView) dto.ContactResponse {
	return dto.ContactResponse{
		ID:           view.ID,
		LeadID:       view.LeadID,
		SourceID:     view.SourceID,
		SourceCode:   view.SourceCode,
		OperatorID:   view.OperatorID,
		OperatorName: view.OperatorName,
		Status:       view.Status,
		Message:      view.Message,
		CreatedAt:    view.CreatedAt,
		AssignedAt:   view.AssignedAt,
		ClosedAt:     view.ClosedAt,
	}
}

func contactList(views []domain.ContactView) []dto.ContactResponse {
	items := make([]dto.ContactResponse, 0, len(views))
	for i := range views {
		items = append(items, contactResponse(&views[i]))
	}
	return items
}

func leadResponse(lead *domain.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:         lead.ID,
		ExternalID: lead.ExternalID,
		Name:       lead.Name,
		Phone:      lead.Phone,
		Email:      lead.Email,
		CreatedAt:  lead.CreatedAt,
	}
}

func sourceDistributionResponse(stats *domain.SourceDistributionStats) dto.SourceDistributionResponse {
	operators := make([]dto.OperatorLoadStatsResponse, 0, len(stats.Operators))
	for _, op := range stats.Operators {
		operators = append(operators, dto.OperatorLoadStatsResponse{
			OperatorID:     op.OperatorID,
			OperatorName:   op.OperatorName,
			TotalContacts:  op.TotalContacts,
			ActiveContacts: op.ActiveContacts,
			ClosedContacts: op.ClosedContacts,
			LoadPercentage: op.LoadPercentage,
		})
	}
	return dto.SourceDistributionResponse{
		SourceID:      stats.SourceID,
		SourceCode:    stats.SourceCode,
		SourceName:    stats.SourceName,
		TotalContacts: stats.TotalContacts,
		Operators:     operators,
	}
}
