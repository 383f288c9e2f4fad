package alert

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"celestia/internal/models"
	"celestia/internal/utils"

	"github.com/jonboulle/clockwork"
)

const (
	// StormThreshold — минимальный Kp, начиная с которого шторм считается
	// достойным уведомления
	StormThreshold = 5.0
	// KpSentinel — "алерт взведен заново", последнего уведомленного
	// значения нет
	KpSentinel = -1.0
	// ProximityRadiusKm — радиус, внутри которого МКС считается близкой
	ProximityRadiusKm = 1500.0
	// ProximityCooldown — минимальная пауза между proximity-уведомлениями
	ProximityCooldown = 90 * time.Minute
)

// Outcome — исход одной проверки за инвокацию
type Outcome string

const (
	// OutcomeSkipped — предусловие не выполнено (флаг выключен, нет
	// локации, нет данных), состояние не менялось
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoAction — проверка прошла, уведомление не требуется
	OutcomeNoAction Outcome = "no_action"
	// OutcomeAlerted — уведомление отправлено
	OutcomeAlerted Outcome = "alerted"
)

type CheckResult struct {
	Outcome Outcome `json:"outcome"`
	Value   float64 `json:"value,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Report — результат одной инвокации. Планировщик снаружи видит только
// "готово"; структура нужна для тестируемости и ручного запуска.
type Report struct {
	Storm     CheckResult `json:"storm"`
	Proximity CheckResult `json:"proximity"`
	RanAt     time.Time   `json:"ran_at"`
}

// KpSource — геомагнитные данные, которыми пользуется проверка шторма
type KpSource interface {
	RefreshReadings(ctx context.Context) error
	GetLatest(ctx context.Context) (*models.KpReading, error)
}

// ISSSource — позиция спутника для proximity-проверки
type ISSSource interface {
	CurrentPosition(ctx context.Context) (*models.ISSPosition, error)
}

// Evaluator — периодическая проверка условий для уведомлений.
// Все ошибки коллабораторов поглощаются: фоновое оповещение никогда
// не сигналит планировщику о сбое.
type Evaluator struct {
	kp       KpSource
	iss      ISSSource
	prefs    PreferenceStore
	notifier Notifier
	location LocationProvider
	clock    clockwork.Clock
}

func NewEvaluator(
	kp KpSource,
	iss ISSSource,
	prefs PreferenceStore,
	notifier Notifier,
	location LocationProvider,
	clock clockwork.Clock,
) *Evaluator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Evaluator{
		kp:       kp,
		iss:      iss,
		prefs:    prefs,
		notifier: notifier,
		location: location,
		clock:    clock,
	}
}

// RunOnce выполняет обе проверки. Инвокации не перекрываются — это
// гарантирует внешний планировщик, внутри блокировок нет.
func (e *Evaluator) RunOnce(ctx context.Context) Report {
	report := Report{RanAt: e.clock.Now().UTC()}
	report.Storm = e.checkStorm(ctx)
	report.Proximity = e.checkProximity(ctx)
	return report
}

func (e *Evaluator) checkStorm(ctx context.Context) CheckResult {
	// Шаг 1: обновляем показания; сбой сети = "нет новых данных",
	// дальше работаем с кэшем
	if err := e.kp.RefreshReadings(ctx); err != nil {
		log.Printf("Alert evaluator: Kp refresh failed, using cached data: %v", err)
	}

	// Шаг 2: последнее закэшированное значение, 0 если данных нет
	latest := 0.0
	if reading, err := e.kp.GetLatest(ctx); err == nil && reading != nil {
		latest = reading.EstimatedKp
	}

	// Шаг 3: флаг выключен — никаких изменений состояния
	enabled, err := e.prefs.GetBool(ctx, models.PrefKpAlertsEnabled, false)
	if err != nil {
		log.Printf("Alert evaluator: failed to read kp alerts flag: %v", err)
	}
	if !enabled {
		return CheckResult{Outcome: OutcomeSkipped, Reason: "kp alerts disabled"}
	}

	// Шаг 4: ниже порога — взводим алерт заново для следующего шторма
	if latest < StormThreshold {
		if err := e.prefs.SetFloat(ctx, models.PrefLastAlertedKp, KpSentinel); err != nil {
			log.Printf("Alert evaluator: failed to reset last alerted Kp: %v", err)
		}
		return CheckResult{Outcome: OutcomeNoAction, Value: latest, Reason: "below storm threshold"}
	}

	// Шаг 5: уведомляем на каждое новое значение, но не на повтор того же
	lastAlerted, err := e.prefs.GetFloat(ctx, models.PrefLastAlertedKp, KpSentinel)
	if err != nil {
		log.Printf("Alert evaluator: failed to read last alerted Kp: %v", err)
	}
	if latest == lastAlerted {
		return CheckResult{Outcome: OutcomeNoAction, Value: latest, Reason: "already alerted for this value"}
	}

	title := "Geomagnetic storm"
	message := fmt.Sprintf("Estimated Kp index reached %.2f (%s)", latest, models.KpCategory(latest))
	if err := e.notifier.Notify(ctx, title, message); err != nil {
		log.Printf("Alert evaluator: storm notification failed: %v", err)
	}

	if err := e.prefs.SetFloat(ctx, models.PrefLastAlertedKp, latest); err != nil {
		log.Printf("Alert evaluator: failed to persist last alerted Kp: %v", err)
	}

	return CheckResult{Outcome: OutcomeAlerted, Value: latest}
}

func (e *Evaluator) checkProximity(ctx context.Context) CheckResult {
	// Шаг 1: оба флага обязательны, fallback-локация не вычисляется
	enabled, err := e.prefs.GetBool(ctx, models.PrefISSProximityEnabled, false)
	if err != nil {
		log.Printf("Alert evaluator: failed to read proximity flag: %v", err)
	}
	if !enabled {
		return CheckResult{Outcome: OutcomeSkipped, Reason: "proximity alerts disabled"}
	}

	useLocation, err := e.prefs.GetBool(ctx, models.PrefUseDeviceLocation, false)
	if err != nil {
		log.Printf("Alert evaluator: failed to read location flag: %v", err)
	}
	if !useLocation {
		return CheckResult{Outcome: OutcomeSkipped, Reason: "device location disabled"}
	}

	// Шаг 2: без локации проверка молча пропускается
	lat, lon, ok, err := e.location.LastKnown(ctx)
	if err != nil || !ok {
		if err != nil {
			log.Printf("Alert evaluator: location unavailable: %v", err)
		}
		return CheckResult{Outcome: OutcomeSkipped, Reason: "location unavailable"}
	}

	// Шаг 3: без позиции спутника проверка молча пропускается
	position, err := e.iss.CurrentPosition(ctx)
	if err != nil || position == nil {
		if err != nil {
			log.Printf("Alert evaluator: ISS position unavailable: %v", err)
		}
		return CheckResult{Outcome: OutcomeSkipped, Reason: "satellite position unavailable"}
	}

	// Шаг 4: расстояние до подспутниковой точки
	distance := utils.HaversineKm(lat, lon, position.Latitude, position.Longitude)

	// Шаг 5: сравнение с прошлой инвокацией; новая дистанция фиксируется
	// безусловно — это база сравнения следующего цикла
	lastDistance, err := e.prefs.GetFloat(ctx, models.PrefLastISSDistanceKm, math.MaxFloat64)
	if err != nil {
		log.Printf("Alert evaluator: failed to read last ISS distance: %v", err)
	}
	approaching := distance < lastDistance

	if err := e.prefs.SetFloat(ctx, models.PrefLastISSDistanceKm, distance); err != nil {
		log.Printf("Alert evaluator: failed to persist ISS distance: %v", err)
	}

	// Шаг 6
	if !approaching {
		return CheckResult{Outcome: OutcomeNoAction, Value: distance, Reason: "not approaching"}
	}
	if distance > ProximityRadiusKm {
		return CheckResult{Outcome: OutcomeNoAction, Value: distance, Reason: "outside proximity radius"}
	}

	// Шаг 7: cooldown между уведомлениями
	lastAlertMs, err := e.prefs.GetInt64(ctx, models.PrefLastProximityAlertMs, 0)
	if err != nil {
		log.Printf("Alert evaluator: failed to read last proximity alert time: %v", err)
	}
	if e.clock.Now().Sub(time.UnixMilli(lastAlertMs)) < ProximityCooldown {
		return CheckResult{Outcome: OutcomeNoAction, Value: distance, Reason: "cooldown active"}
	}

	// Шаг 8
	title := "ISS overhead"
	message := fmt.Sprintf("The ISS is %.0f km from your location and approaching", distance)
	if err := e.notifier.Notify(ctx, title, message); err != nil {
		log.Printf("Alert evaluator: proximity notification failed: %v", err)
	}

	if err := e.prefs.SetInt64(ctx, models.PrefLastProximityAlertMs, e.clock.Now().UnixMilli()); err != nil {
		log.Printf("Alert evaluator: failed to persist proximity alert time: %v", err)
	}

	return CheckResult{Outcome: OutcomeAlerted, Value: distance}
}
