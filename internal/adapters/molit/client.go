package molit

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
)

// Client - адаптер реестра реальных цен МОЛИТ (공공데이터포털,
// RTMSDataSvcAptTradeDev). Запрашивается одна страница максимального
// размера; пагинации нет, сделки сверх страницы молча отбрасываются -
// известное ограничение источника.
type Client struct {
	baseURL    string
	serviceKey string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		pageSize:   pageSize,
		httpClient: &http.Client{},
	}
}

// ответ API: код результата в header, сделки в body/items
type tradeResponse struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []tradeItem `xml:"item"`
		} `xml:"items"`
		TotalCount string `xml:"totalCount"`
	} `xml:"body"`
}

type tradeItem struct {
	DealAmount     string `xml:"dealAmount"`
	BuildYear      string `xml:"buildYear"`
	DealYear       string `xml:"dealYear"`
	DealMonth      string `xml:"dealMonth"`
	DealDay        string `xml:"dealDay"`
	RoadName       string `xml:"roadName"`
	RoadNameBonbun string `xml:"roadNameBonbun"`
	RoadNameBubun  string `xml:"roadNameBubun"`
	UmdNm          string `xml:"umdNm"`
	SggCd          string `xml:"sggCd"`
	AptName        string `xml:"aptNm"`
	ExcluUseAr     string `xml:"excluUseAr"`
	Jibun          string `xml:"jibun"`
	Floor          string `xml:"floor"`
	CdealDay       string `xml:"cdealDay"`
	CdealType      string `xml:"cdealType"`
	DealingGbn     string `xml:"dealingGbn"`
	Sn             string `xml:"sn"`
}

var _ port.TradeSourcePort = (*Client)(nil)

func (c *Client) FetchTrades(ctx context.Context, regionCode, dealYM string) ([]domain.TransactionRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "MolitClient",
		"region_code": regionCode,
		"deal_ym":     dealYM,
	})

	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("LAWD_CD", regionCode)
	params.Set("DEAL_YMD", dealYM)
	params.Set("numOfRows", fmt.Sprintf("%d", c.pageSize))
	params.Set("pageNo", "1")

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/xml")

	logger.Debug("Sending request to trade API", nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Trade API request failed", err, nil)
		return nil, &domain.FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("Trade API returned non-success status", nil, port.Fields{"status_code": resp.StatusCode})
		return nil, &domain.FetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var parsed tradeResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to decode trade API response: %w", err)}
	}

	// любой код с префиксом "00" - успех ("00", "000" и т.д.)
	code := strings.TrimSpace(parsed.Header.ResultCode)
	if code != "" && !strings.HasPrefix(code, "00") {
		logger.Warn("Trade API reported an error code", port.Fields{
			"result_code": code,
			"result_msg":  parsed.Header.ResultMsg,
		})
		return nil, &domain.UpstreamError{Code: code, Message: strings.TrimSpace(parsed.Header.ResultMsg)}
	}

	records := make([]domain.TransactionRecord, 0, len(parsed.Body.Items.Item))
	for _, item := range parsed.Body.Items.Item {
		records = append(records, toDomainRecord(item))
	}

	logger.Info("Trades fetched", port.Fields{"count": len(records)})
	return records, nil
}
