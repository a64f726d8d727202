package chat

import (
	"context"
	"hudori/internal/database"
	"hudori/internal/models"
	"strings"
	"time"
)

type NewReport struct {
	ReporterId       string   `json:"reporter_id"`
	ReportedMemberId string   `json:"reported_member_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
}

type ReportPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status"`
}

// CreateReport files a report by one member against another of the same
// server. The reporter's username and the reported member's role are
// snapshotted.
func (s *Service) CreateReport(ctx context.Context, in NewReport) (Result[*models.Report], error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.ReporterId == "" || in.ReportedMemberId == "" || in.Title == "" {
		return failNamed[*models.Report](KindValidation, NameMissingInfo, "Reporter, reported member and title are required.")
	}
	if in.ReporterId == in.ReportedMemberId {
		return fail[*models.Report](KindValidation, "Cannot report yourself.")
	}

	reporter, err := load[models.Member](ctx, s, database.Members, in.ReporterId)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	reported, err := load[models.Member](ctx, s, database.Members, in.ReportedMemberId)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	if reporter == nil || reported == nil {
		return fail[*models.Report](KindNotFound, "Member not found")
	}
	if reporter.ServerId != reported.ServerId {
		return fail[*models.Report](KindValidation, "Members belong to different servers.")
	}

	profile, err := load[models.Profile](ctx, s, database.Profiles, reporter.ProfileId)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	if profile == nil {
		return fail[*models.Report](KindNotFound, "Profile not found")
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.timestamp()
	report := models.Report{
		ReporterId:         reporter.ID,
		ReporterUsername:   profile.Username,
		ReportedMemberId:   reported.ID,
		ReportedMemberRole: reported.Role,
		Title:              in.Title,
		Description:        in.Description,
		Tags:               tags,
		Status:             models.ReportUnsolved,
		ServerId:           reporter.ServerId,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	id, err := s.insert(ctx, database.Reports, report)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	report.ID = id

	s.logger.Info().Str("report_id", id).Str("server_id", report.ServerId).Msg("report created")
	return ok(&report, "Report created")
}

// UpdateReportByID patches report fields. Status never goes back to
// unsolved.
func (s *Service) UpdateReportByID(ctx context.Context, reportID string, patch ReportPatch) (Result[*models.Report], error) {
	report, err := load[models.Report](ctx, s, database.Reports, reportID)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	if report == nil {
		return fail[*models.Report](KindNotFound, "Report not found")
	}

	updates := map[string]any{}
	if patch.Status != nil {
		status, valid := models.ParseReportStatus(*patch.Status)
		if !valid {
			return fail[*models.Report](KindValidation, "Invalid report status.")
		}
		if status == models.ReportUnsolved && report.Status != models.ReportUnsolved {
			return fail[*models.Report](KindValidation, "A report cannot go back to unsolved.")
		}
		updates["status"] = status
		report.Status = status
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return failNamed[*models.Report](KindValidation, NameMissingInfo, "Title is required.")
		}
		updates["title"] = title
		report.Title = title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
		report.Description = *patch.Description
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		updates["tags"] = tags
		report.Tags = tags
	}

	report.UpdatedAt = s.timestamp()
	updates["updated_at"] = report.UpdatedAt
	if err := s.patch(ctx, report.ID, updates); err != nil {
		return Result[*models.Report]{}, err
	}

	return ok(report, "Report updated")
}

// SolveReport marks a report solved on behalf of actorMemberID.
func (s *Service) SolveReport(ctx context.Context, reportID, actorMemberID string) (Result[*models.Report], error) {
	report, res, err := s.authorizeReport(ctx, reportID, actorMemberID)
	if err != nil || !res.OK() {
		return res, err
	}
	if report.Status == models.ReportSolved {
		return fail[*models.Report](KindValidation, "Report is already solved.")
	}

	solved := string(models.ReportSolved)
	return s.UpdateReportByID(ctx, report.ID, ReportPatch{Status: &solved})
}

// DeleteReportByID hard deletes a report, under the same rule as solving.
func (s *Service) DeleteReportByID(ctx context.Context, reportID, actorMemberID string) (Result[*models.Report], error) {
	report, res, err := s.authorizeReport(ctx, reportID, actorMemberID)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.remove(ctx, report.ID); err != nil {
		return Result[*models.Report]{}, err
	}
	return ok(report, "Report deleted successfully")
}

// authorizeReport loads a report and checks that actor may act on it: the
// reporter, any member outranking the reported role snapshot, or the
// server's creator.
func (s *Service) authorizeReport(ctx context.Context, reportID, actorMemberID string) (*models.Report, Result[*models.Report], error) {
	report, err := load[models.Report](ctx, s, database.Reports, reportID)
	if err != nil {
		return nil, Result[*models.Report]{}, err
	}
	if report == nil {
		res, _ := fail[*models.Report](KindNotFound, "Report not found")
		return nil, res, nil
	}

	actor, err := load[models.Member](ctx, s, database.Members, actorMemberID)
	if err != nil {
		return nil, Result[*models.Report]{}, err
	}
	if actor == nil {
		res, _ := fail[*models.Report](KindNotFound, "Member not found")
		return nil, res, nil
	}
	if actor.ServerId != report.ServerId {
		res, _ := fail[*models.Report](KindAuthorization, "Unauthorized")
		return nil, res, nil
	}

	if actor.ID == report.ReporterId || actor.Role.Outranks(report.ReportedMemberRole) {
		return report, Result[*models.Report]{}, nil
	}

	creator, err := s.isCreator(ctx, actor)
	if err != nil {
		return nil, Result[*models.Report]{}, err
	}
	if !creator {
		res, _ := fail[*models.Report](KindAuthorization, "You do not have permission to manage this report.")
		return nil, res, nil
	}

	return report, Result[*models.Report]{}, nil
}

func (s *Service) GetReportByID(ctx context.Context, reportID string) (Result[*models.Report], error) {
	report, err := load[models.Report](ctx, s, database.Reports, reportID)
	if err != nil {
		return Result[*models.Report]{}, err
	}
	if report == nil {
		return fail[*models.Report](KindNotFound, "Report not found")
	}
	return ok(report, "Report found")
}

func (s *Service) GetReportsByServerIDAndStatus(ctx context.Context, serverID, status string) (Result[[]models.Report], error) {
	st, valid := models.ParseReportStatus(status)
	if !valid {
		return fail[[]models.Report](KindValidation, "Invalid report status.")
	}
	return s.reports(ctx, database.Filter{"server_id": serverID, "status": st})
}

func (s *Service) GetReportsByReporterID(ctx context.Context, reporterID string) (Result[[]models.Report], error) {
	return s.reports(ctx, database.Filter{"reporter_id": reporterID})
}

func (s *Service) reports(ctx context.Context, filter database.Filter) (Result[[]models.Report], error) {
	reports, err := findAll[models.Report](ctx, s, database.Reports, filter)
	if err != nil {
		return Result[[]models.Report]{}, err
	}
	sortByCreated(reports, func(r models.Report) time.Time { return r.CreatedAt })
	return ok(reports, "Reports found")
}
