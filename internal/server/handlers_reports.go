package server

import (
	"hudori/internal/chat"
	"hudori/internal/database"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

type reportBody struct {
	ReportedMemberId string   `json:"reported_member_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
}

func (s *Server) HandlerCreateReport(c echo.Context) error {
	ctx := c.Request().Context()

	body := new(reportBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when creating the report.")
	}

	reported, err := s.chat.GetMemberByID(ctx, recordID(database.Members, body.ReportedMemberId))
	if err != nil || !reported.OK() {
		return respond(s, c, http.StatusOK, reported, err)
	}
	reporter, err := s.requireRole(c, reported.Data.ServerId, models.RoleGuest)
	if err != nil {
		return err
	}

	res, err := s.chat.CreateReport(ctx, chat.NewReport{
		ReporterId:       reporter.ID,
		ReportedMemberId: reported.Data.ID,
		Title:            body.Title,
		Description:      body.Description,
		Tags:             body.Tags,
	})
	return respond(s, c, http.StatusCreated, res, err)
}

func (s *Server) HandlerServerReports(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleModerator); err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		status = string(models.ReportUnsolved)
	}

	res, err := s.chat.GetReportsByServerIDAndStatus(c.Request().Context(), serverID, status)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerMyReports(c echo.Context) error {
	actor, err := s.requireRole(c, serverParam(c), models.RoleGuest)
	if err != nil {
		return err
	}

	res, err := s.chat.GetReportsByReporterID(c.Request().Context(), actor.ID)
	return respond(s, c, http.StatusOK, res, err)
}

// reportActor loads the :reportId report and the signed-in profile's
// membership in its server.
func (s *Server) reportActor(c echo.Context) (*models.Report, *models.Member, error) {
	report, err := s.chat.GetReportByID(c.Request().Context(), recordID(database.Reports, c.Param("reportId")))
	if err != nil || !report.OK() {
		return nil, nil, rejected(s, c, report, err)
	}

	actor, err := s.requireRole(c, report.Data.ServerId, models.RoleGuest)
	if err != nil {
		return nil, nil, err
	}
	return report.Data, actor, nil
}

func (s *Server) HandlerSolveReport(c echo.Context) error {
	report, actor, err := s.reportActor(c)
	if err != nil {
		return err
	}

	res, err := s.chat.SolveReport(c.Request().Context(), report.ID, actor.ID)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteReport(c echo.Context) error {
	report, actor, err := s.reportActor(c)
	if err != nil {
		return err
	}

	res, err := s.chat.DeleteReportByID(c.Request().Context(), report.ID, actor.ID)
	return respond(s, c, http.StatusOK, res, err)
}
