// Command seed writes demo data files so both servers have something
// to work with on a fresh checkout.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/vibecoding/backoffice/internal/config"
	"github.com/vibecoding/backoffice/internal/payroll"
	"github.com/vibecoding/backoffice/internal/players"
	"github.com/vibecoding/backoffice/internal/store"
	"github.com/vibecoding/backoffice/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	month := flag.String("month", time.Now().Format("2006-01"), "attendance target month (YYYY-MM)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "info", OutputPath: "stdout", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	roster := demoEmployees()
	if err := store.NewEmployeeStore(cfg.Data.EmployeesPath(), logger).Save(roster); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write employee roster: %v\n", err)
		os.Exit(1)
	}

	if err := store.NewAttendanceStore(cfg.Data.AttendancePath(), logger).Save(demoAttendance(roster, *month)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write attendance data: %v\n", err)
		os.Exit(1)
	}

	if err := store.NewPlayerStore(cfg.Data.PlayersPath(), logger).Save(demoPlayers()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write player roster: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded demo data under %s for %s\n", cfg.Data.Dir, *month)
}

func demoEmployees() []payroll.Employee {
	return []payroll.Employee{
		{
			ID: "E001", Name: "山田 太郎", BaseRate: 1200, Basis: payroll.PayBasisHourly,
			TransportDaily: 500, Dependents: 0,
			BankCode: "0001", BankNameKana: "ﾐｽﾞﾎ", BranchCode: "001", BranchNameKana: "ﾎﾝﾃﾝ",
			AccountType: payroll.AccountTypeOrdinary, AccountNumber: "1234567", AccountNameKana: "ﾔﾏﾀﾞ ﾀﾛｳ",
		},
		{
			ID: "E002", Name: "鈴木 花子", BaseRate: 1300, Basis: payroll.PayBasisHourly,
			TransportDaily: 600, Dependents: 1,
			BankCode: "0005", BankNameKana: "ﾐﾂﾋﾞｼUFJ", BranchCode: "002", BranchNameKana: "ｼﾌﾞﾔ",
			AccountType: payroll.AccountTypeOrdinary, AccountNumber: "2345678", AccountNameKana: "ｽｽﾞｷ ﾊﾅｺ",
		},
		{
			ID: "E003", Name: "佐藤 次郎", BaseRate: 350000, Basis: payroll.PayBasisMonthly,
			TransportDaily: 1000, Dependents: 3, PositionAllowance: 20000,
			BankCode: "0009", BankNameKana: "ﾐﾂｲｽﾐﾄﾓ", BranchCode: "003", BranchNameKana: "ｼﾝｼﾞｭｸ",
			AccountType: payroll.AccountTypeOrdinary, AccountNumber: "3456789", AccountNameKana: "ｻﾄｳ ｼﾞﾛｳ",
		},
		{
			ID: "E004", Name: "田中 美咲", BaseRate: 280000, Basis: payroll.PayBasisMonthly,
			TransportDaily: 800, Dependents: 0,
			BankCode: "0001", BankNameKana: "ﾐｽﾞﾎ", BranchCode: "001", BranchNameKana: "ﾎﾝﾃﾝ",
			AccountType: payroll.AccountTypeOrdinary, AccountNumber: "4567890", AccountNameKana: "ﾀﾅｶ ﾐｻｷ",
		},
		{
			ID: "E005", Name: "高橋 健一", BaseRate: 1150, Basis: payroll.PayBasisHourly,
			TransportDaily: 0, Dependents: 2,
			BankCode: "9900", BankNameKana: "ﾕｳﾁﾖ", BranchCode: "008", BranchNameKana: "ｲﾁﾆｰｻﾝ",
			AccountType: payroll.AccountTypeOrdinary, AccountNumber: "5678901", AccountNameKana: "ﾀｶﾊｼ ｹﾝｲﾁ",
		},
	}
}

func demoAttendance(roster []payroll.Employee, month string) []payroll.Attendance {
	rows := make([]payroll.Attendance, 0, len(roster))
	for _, emp := range roster {
		workDays := 18 + rand.Intn(5)
		rows = append(rows, payroll.Attendance{
			EmployeeID:     emp.ID,
			TargetMonth:    month,
			WorkDays:       workDays,
			WorkHours:      workDays * 8,
			OvertimeHours:  rand.Intn(21),
			LateNightHours: rand.Intn(6),
		})
	}
	return rows
}

func demoPlayers() []players.Player {
	demo := []players.Player{
		{Number: 1, Name: "sato", Position: players.PositionGK, Grade: "3rd-year", HeightCM: 182, WeightKG: 75},
		{Number: 5, Name: "kimura", Position: players.PositionDF, Grade: "2nd-year", HeightCM: 175, WeightKG: 68},
		{Number: 8, Name: "watanabe", Position: players.PositionMF, Grade: "3rd-year", HeightCM: 170, WeightKG: 63},
		{Number: 11, Name: "ito", Position: players.PositionFW, Grade: "1st-year", HeightCM: 168, WeightKG: 60},
	}
	for i := range demo {
		demo[i].PasswordHash = players.HashPassword("pass123")
	}
	return demo
}
